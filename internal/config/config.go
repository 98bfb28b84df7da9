package config

import (
	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the full ingestion pipeline configuration, loaded from a
// YAML file. Section layout mirrors the config file one to one.
type Config struct {
	Processor            ProcessorConfig    `yaml:"processor"`
	Partitioning         PartitioningConfig `yaml:"partitioning"`
	Sources              SourcesConfig      `yaml:"sources"`
	Chunking             ChunkingConfig     `yaml:"chunking"`
	Embedding            EmbeddingConfig    `yaml:"embedding"`
	Destination          DestinationConfig  `yaml:"destination_connectors"`
	AdditionalProcessing ProcessingConfig   `yaml:"additional_processing"`
}

// ProcessorConfig controls the external process itself.
type ProcessorConfig struct {
	OutputDir    string `yaml:"output_dir" env-description:"Directory the ingest tool writes element JSON into (cleared before every run)"`
	NumProcesses int    `yaml:"num_processes" env-default:"1"`
	Verbose      bool   `yaml:"verbose"`
}

// PartitioningConfig controls how documents are split into elements.
type PartitioningConfig struct {
	Strategy               string   `yaml:"strategy" env-default:"auto"`
	OCRLanguages           []string `yaml:"ocr_languages"`
	Encoding               string   `yaml:"encoding" env-default:"utf-8"`
	FieldsInclude          []string `yaml:"fields_include"`
	MetadataExclude        []string `yaml:"metadata_exclude"`
	MetadataInclude        []string `yaml:"metadata_include"`
	PDFInferTableStructure bool     `yaml:"pdf_infer_table_structure"`
	SkipInferTableTypes    []string `yaml:"skip_infer_table_types"`
	FlattenMetadata        bool     `yaml:"flatten_metadata"`
	PartitionByAPI         bool     `yaml:"partition_by_api"`
	PartitionEndpoint      string   `yaml:"partition_endpoint"`
}

// SourcesConfig holds per-source connection parameters. Only the section
// matching the selected source type is consulted for a given run.
type SourcesConfig struct {
	Local       LocalSource       `yaml:"local"`
	Confluence  ConfluenceSource  `yaml:"confluence"`
	GitHub      GitHubSource      `yaml:"github"`
	GoogleDrive GoogleDriveSource `yaml:"google_drive"`
}

type LocalSource struct {
	Recursive bool `yaml:"recursive"`
}

type ConfluenceSource struct {
	URL       string `yaml:"url"`
	UserEmail string `yaml:"user_email"`
	APIToken  string `yaml:"api_token"`
}

type GitHubSource struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch"`
}

type GoogleDriveSource struct {
	DriveID           string `yaml:"drive_id"`
	ServiceAccountKey string `yaml:"service_account_key"`
	Recursive         bool   `yaml:"recursive"`
}

// ChunkingConfig controls post-partition chunking inside the ingest tool.
type ChunkingConfig struct {
	Enabled            bool   `yaml:"enabled"`
	Strategy           string `yaml:"strategy"`
	ChunkMaxCharacters int    `yaml:"chunk_max_characters"`
	ChunkOverlap       int    `yaml:"chunk_overlap"`
}

// EmbeddingConfig controls embedding computation inside the ingest tool.
type EmbeddingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Provider  string `yaml:"provider"`
	ModelName string `yaml:"model_name"`
}

// DestinationConfig selects at most one vector-store destination the
// ingest tool streams elements into.
type DestinationConfig struct {
	Enabled   bool         `yaml:"enabled"`
	Type      string       `yaml:"type"`
	BatchSize int          `yaml:"batch_size"`
	Chroma    ChromaConfig `yaml:"chroma"`
	Qdrant    QdrantConfig `yaml:"qdrant"`
}

type ChromaConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	CollectionName string `yaml:"collection_name"`
	Tenant         string `yaml:"tenant"`
	Database       string `yaml:"database"`
}

type QdrantConfig struct {
	Location       string `yaml:"location"`
	CollectionName string `yaml:"collection_name"`
}

// ProcessingConfig controls the post-run normalization pass over the
// element JSON files.
type ProcessingConfig struct {
	Enabled             bool   `yaml:"enabled"`
	ExtendMetadata      bool   `yaml:"extend_metadata"`
	ReplaceTableText    bool   `yaml:"replace_table_text"`
	TableTextKey        string `yaml:"table_text_key" env-default:"text_as_html"`
	ReturnLangchainDocs bool   `yaml:"return_langchain_docs"`
}

// Load reads a YAML config file into a Config. Validation is a separate
// step: callers run it through ingest.NewCommandSpec before execution.
func Load(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
