package ingest

import (
	"strconv"
	"strings"

	"github.com/snova-jorgep/sambaparse/internal/config"
)

// DefaultBinary is the external ingest tool driven by this package.
const DefaultBinary = "unstructured-ingest"

// APIKeyEnvVar names the environment variable consulted when remote
// partitioning is enabled.
const APIKeyEnvVar = "UNSTRUCTURED_API_KEY"

// SourceType identifies where documents are ingested from. The set is
// closed: anything outside it fails validation.
type SourceType string

const (
	SourceLocal       SourceType = "local"
	SourceConfluence  SourceType = "confluence"
	SourceGitHub      SourceType = "github"
	SourceGoogleDrive SourceType = "google-drive"
)

// ParseSourceType validates a source-type token from the CLI or an API
// caller.
func ParseSourceType(s string) (SourceType, error) {
	switch st := SourceType(s); st {
	case SourceLocal, SourceConfluence, SourceGitHub, SourceGoogleDrive:
		return st, nil
	default:
		return "", &ConfigError{Field: "source type", Value: s, Reason: "must be one of local, confluence, github, google-drive"}
	}
}

// DestinationType identifies a vector-store destination connector. The
// set is closed: chroma and qdrant only.
type DestinationType string

const (
	DestinationChroma DestinationType = "chroma"
	DestinationQdrant DestinationType = "qdrant"
)

// CommandSpec is a validated description of one ingest tool invocation.
// Validate and Args are separate steps so the per-source and
// per-destination branching can be tested without spawning anything.
type CommandSpec struct {
	Binary    string
	Source    SourceType
	InputPath string
	// APIKey taken from the environment; required only when
	// partitioning.partition_by_api is set.
	APIKey string

	cfg config.Config
}

// NewCommandSpec builds a CommandSpec from a loaded configuration. The
// spec is not yet validated.
func NewCommandSpec(cfg config.Config, source SourceType, inputPath string) *CommandSpec {
	return &CommandSpec{
		Binary:    DefaultBinary,
		Source:    source,
		InputPath: inputPath,
		cfg:       cfg,
	}
}

// Validate checks that the spec can be serialized into a runnable
// command: known source and destination types, all per-source required
// parameters present, and an API key when remote partitioning is on.
func (s *CommandSpec) Validate() error {
	switch s.Source {
	case SourceLocal:
		if s.InputPath == "" {
			return &ConfigError{Field: "input path", Reason: "required for local source type"}
		}
	case SourceConfluence:
		src := s.cfg.Sources.Confluence
		if src.URL == "" || src.UserEmail == "" || src.APIToken == "" {
			return &ConfigError{Field: "sources.confluence", Reason: "url, user_email and api_token are required"}
		}
	case SourceGitHub:
		src := s.cfg.Sources.GitHub
		if src.URL == "" || src.Branch == "" {
			return &ConfigError{Field: "sources.github", Reason: "url and branch are required"}
		}
	case SourceGoogleDrive:
		src := s.cfg.Sources.GoogleDrive
		if src.DriveID == "" || src.ServiceAccountKey == "" {
			return &ConfigError{Field: "sources.google_drive", Reason: "drive_id and service_account_key are required"}
		}
	default:
		return &ConfigError{Field: "source type", Value: string(s.Source), Reason: "must be one of local, confluence, github, google-drive"}
	}

	if s.cfg.Partitioning.PartitionByAPI && s.APIKey == "" {
		return &ConfigError{Field: APIKeyEnvVar, Reason: "environment variable is not set but partition_by_api is enabled"}
	}

	if s.cfg.Destination.Enabled {
		switch DestinationType(s.cfg.Destination.Type) {
		case DestinationChroma, DestinationQdrant:
		default:
			return &ConfigError{Field: "destination type", Value: s.cfg.Destination.Type, Reason: "must be chroma or qdrant"}
		}
	}

	return nil
}

// Args serializes the spec into the ordered token list for the ingest
// tool. Callers must run Validate first; Args assumes a valid spec.
func (s *CommandSpec) Args() []string {
	cfg := s.cfg
	args := []string{
		string(s.Source),
		"--output-dir", cfg.Processor.OutputDir,
		"--num-processes", strconv.Itoa(cfg.Processor.NumProcesses),
	}

	args = append(args,
		"--strategy", cfg.Partitioning.Strategy,
		"--ocr-languages", strings.Join(cfg.Partitioning.OCRLanguages, ","),
		"--encoding", cfg.Partitioning.Encoding,
		"--fields-include", strings.Join(cfg.Partitioning.FieldsInclude, ","),
		"--metadata-exclude", strings.Join(cfg.Partitioning.MetadataExclude, ","),
		"--metadata-include", strings.Join(cfg.Partitioning.MetadataInclude, ","),
	)

	// The polarity here is inverted on purpose: the flag is emitted when
	// pdf_infer_table_structure is false. That matches the behavior this
	// tool has always had; downstream configs depend on it.
	if !cfg.Partitioning.PDFInferTableStructure {
		args = append(args, "--pdf-infer-table-structure")
	}

	if len(cfg.Partitioning.SkipInferTableTypes) > 0 {
		args = append(args, "--skip-infer-table-types", strings.Join(cfg.Partitioning.SkipInferTableTypes, ","))
	}

	if cfg.Partitioning.FlattenMetadata {
		args = append(args, "--flatten-metadata")
	}

	switch s.Source {
	case SourceLocal:
		// Quoted because the final command line is shell-joined; a path
		// with spaces must stay one token.
		args = append(args, "--input-path", `"`+s.InputPath+`"`)
		if cfg.Sources.Local.Recursive {
			args = append(args, "--recursive")
		}
	case SourceConfluence:
		args = append(args,
			"--url", cfg.Sources.Confluence.URL,
			"--user-email", cfg.Sources.Confluence.UserEmail,
			"--api-token", cfg.Sources.Confluence.APIToken,
		)
	case SourceGitHub:
		args = append(args,
			"--url", cfg.Sources.GitHub.URL,
			"--git-branch", cfg.Sources.GitHub.Branch,
		)
	case SourceGoogleDrive:
		args = append(args,
			"--drive-id", cfg.Sources.GoogleDrive.DriveID,
			"--service-account-key", cfg.Sources.GoogleDrive.ServiceAccountKey,
		)
		if cfg.Sources.GoogleDrive.Recursive {
			args = append(args, "--recursive")
		}
	}

	if cfg.Processor.Verbose {
		args = append(args, "--verbose")
	}

	if cfg.Partitioning.PartitionByAPI {
		args = append(args,
			"--partition-by-api",
			"--api-key", s.APIKey,
			"--partition-endpoint", cfg.Partitioning.PartitionEndpoint,
		)
	}

	if cfg.Chunking.Enabled {
		args = append(args,
			"--chunking-strategy", cfg.Chunking.Strategy,
			"--chunk-max-characters", strconv.Itoa(cfg.Chunking.ChunkMaxCharacters),
			"--chunk-overlap", strconv.Itoa(cfg.Chunking.ChunkOverlap),
		)
	}

	if cfg.Embedding.Enabled {
		args = append(args,
			"--embedding-provider", cfg.Embedding.Provider,
			"--embedding-model-name", cfg.Embedding.ModelName,
		)
	}

	if cfg.Destination.Enabled {
		switch DestinationType(cfg.Destination.Type) {
		case DestinationChroma:
			args = append(args,
				"chroma",
				"--host", cfg.Destination.Chroma.Host,
				"--port", strconv.Itoa(cfg.Destination.Chroma.Port),
				"--collection-name", cfg.Destination.Chroma.CollectionName,
				"--tenant", cfg.Destination.Chroma.Tenant,
				"--database", cfg.Destination.Chroma.Database,
				"--batch-size", strconv.Itoa(cfg.Destination.BatchSize),
			)
		case DestinationQdrant:
			args = append(args,
				"qdrant",
				"--location", cfg.Destination.Qdrant.Location,
				"--collection-name", cfg.Destination.Qdrant.CollectionName,
				"--batch-size", strconv.Itoa(cfg.Destination.BatchSize),
			)
		}
	}

	return args
}

// CommandLine renders the full shell command line, binary included. The
// ingest tool is invoked through the shell as one joined string, which
// is why Args quotes the local input path.
func (s *CommandSpec) CommandLine() string {
	return s.Binary + " " + strings.Join(s.Args(), " ")
}
