package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `processor:
  output_dir: ./output
  num_processes: 4
  verbose: true

partitioning:
  strategy: hi_res
  ocr_languages:
    - eng
    - deu
  encoding: utf-8
  fields_include:
    - element_id
    - text
    - type
    - metadata
  metadata_exclude:
    - filename.file_directory
  metadata_include:
    - filename
    - page_number
  pdf_infer_table_structure: true
  skip_infer_table_types:
    - jpg
  flatten_metadata: false
  partition_by_api: true
  partition_endpoint: https://api.example.com

sources:
  local:
    recursive: true
  confluence:
    url: https://example.atlassian.net
    user_email: docs@example.com
    api_token: secret-token
  github:
    url: https://github.com/org/repo
    branch: main
  google_drive:
    drive_id: drive-123
    service_account_key: /keys/sa.json
    recursive: false

chunking:
  enabled: true
  strategy: by_title
  chunk_max_characters: 1500
  chunk_overlap: 300

embedding:
  enabled: false
  provider: langchain-huggingface
  model_name: intfloat/e5-large-v2

destination_connectors:
  enabled: true
  type: qdrant
  batch_size: 80
  chroma:
    host: localhost
    port: 8000
    collection_name: docs
    tenant: default_tenant
    database: default_database
  qdrant:
    location: http://localhost:6333
    collection_name: docs

additional_processing:
  enabled: true
  extend_metadata: true
  replace_table_text: true
  table_text_key: text_as_html
  return_langchain_docs: true
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "./output", cfg.Processor.OutputDir)
	assert.Equal(t, 4, cfg.Processor.NumProcesses)
	assert.True(t, cfg.Processor.Verbose)

	assert.Equal(t, "hi_res", cfg.Partitioning.Strategy)
	assert.Equal(t, []string{"eng", "deu"}, cfg.Partitioning.OCRLanguages)
	assert.True(t, cfg.Partitioning.PDFInferTableStructure)
	assert.True(t, cfg.Partitioning.PartitionByAPI)
	assert.Equal(t, "https://api.example.com", cfg.Partitioning.PartitionEndpoint)

	assert.True(t, cfg.Sources.Local.Recursive)
	assert.Equal(t, "docs@example.com", cfg.Sources.Confluence.UserEmail)
	assert.Equal(t, "main", cfg.Sources.GitHub.Branch)
	assert.Equal(t, "drive-123", cfg.Sources.GoogleDrive.DriveID)

	assert.True(t, cfg.Chunking.Enabled)
	assert.Equal(t, 1500, cfg.Chunking.ChunkMaxCharacters)
	assert.Equal(t, 300, cfg.Chunking.ChunkOverlap)

	assert.False(t, cfg.Embedding.Enabled)
	assert.Equal(t, "intfloat/e5-large-v2", cfg.Embedding.ModelName)

	assert.True(t, cfg.Destination.Enabled)
	assert.Equal(t, "qdrant", cfg.Destination.Type)
	assert.Equal(t, 80, cfg.Destination.BatchSize)
	assert.Equal(t, "http://localhost:6333", cfg.Destination.Qdrant.Location)
	assert.Equal(t, 8000, cfg.Destination.Chroma.Port)

	assert.True(t, cfg.AdditionalProcessing.Enabled)
	assert.Equal(t, "text_as_html", cfg.AdditionalProcessing.TableTextKey)
	assert.True(t, cfg.AdditionalProcessing.ReturnLangchainDocs)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfigFile(t, "processor: [not a mapping"))
	assert.Error(t, err)
}
