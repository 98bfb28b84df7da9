package ingest

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"

	"github.com/snova-jorgep/sambaparse/internal/config"
	"github.com/snova-jorgep/sambaparse/internal/element"
	"github.com/snova-jorgep/sambaparse/internal/storage"
)

// Executor runs one assembled ingest command line to completion.
// Implementations must block until the process exits and return an
// *ExecError on non-zero exit.
type Executor interface {
	Run(ctx context.Context, commandLine string) error
}

// shellExecutor runs the command line through the shell, matching the
// ingest tool's documented invocation style (one joined string).
type shellExecutor struct{}

func (shellExecutor) Run(ctx context.Context, commandLine string) error {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", commandLine)
	var stderr bytes.Buffer
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return &ExecError{
			Command:  commandLine,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return nil
}

// Pipeline drives one ingest run end to end: output-dir reset, command
// construction, external process execution, and the optional
// normalization pass over the emitted element files.
type Pipeline struct {
	cfg    config.Config
	fs     storage.FileSystem
	exec   Executor
	logger *slog.Logger
}

// PipelineConfig holds the collaborators for a Pipeline. Zero-value
// fields fall back to production defaults.
type PipelineConfig struct {
	Config     config.Config
	FileSystem storage.FileSystem
	Executor   Executor
	Logger     *slog.Logger
}

// NewPipeline creates a Pipeline from its configuration.
func NewPipeline(pc PipelineConfig) *Pipeline {
	p := &Pipeline{
		cfg:    pc.Config,
		fs:     pc.FileSystem,
		exec:   pc.Executor,
		logger: pc.Logger,
	}
	if p.fs == nil {
		p.fs = storage.NewOSFileSystem()
	}
	if p.exec == nil {
		p.exec = shellExecutor{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// Run ingests from the given source and, when additional processing is
// enabled, returns the normalized output. With processing disabled the
// returned result is nil and the element files are left as the tool
// wrote them.
//
// The configured output directory is recursively deleted before the
// process starts. That reset makes reruns idempotent, and it is
// irreversible: a misconfigured output_dir pointing at live data will
// destroy it.
func (p *Pipeline) Run(ctx context.Context, source SourceType, inputPath string, additionalMetadata map[string]any) (*element.Result, error) {
	runID := uuid.NewString()
	outputDir := p.cfg.Processor.OutputDir

	p.logger.InfoContext(ctx, "clearing previous output",
		"run_id", runID,
		"output_dir", outputDir,
	)
	if err := p.fs.RemoveAll(outputDir); err != nil {
		return nil, err
	}

	spec := NewCommandSpec(p.cfg, source, inputPath)
	spec.APIKey = os.Getenv(APIKeyEnvVar)
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	commandLine := spec.CommandLine()
	p.logger.InfoContext(ctx, "running ingest command",
		"run_id", runID,
		"source", string(source),
		"command", commandLine,
	)
	if err := p.exec.Run(ctx, commandLine); err != nil {
		return nil, err
	}

	if !p.cfg.AdditionalProcessing.Enabled {
		p.logger.InfoContext(ctx, "ingest complete",
			"run_id", runID,
			"output_dir", outputDir,
		)
		return nil, nil
	}

	res, err := element.Process(p.fs, outputDir, element.Options{
		ExtendMetadata:     p.cfg.AdditionalProcessing.ExtendMetadata,
		AdditionalMetadata: additionalMetadata,
		ReplaceTableText:   p.cfg.AdditionalProcessing.ReplaceTableText,
		TableTextKey:       p.cfg.AdditionalProcessing.TableTextKey,
		ReturnDocs:         p.cfg.AdditionalProcessing.ReturnLangchainDocs,
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "ingest complete",
		"run_id", runID,
		"output_dir", outputDir,
		"elements", len(res.Texts),
		"documents", len(res.Docs),
	)
	return res, nil
}
