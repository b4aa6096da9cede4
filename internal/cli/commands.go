package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/ai-flowgen/internal/bootstrap"
	"github.com/yanqian/ai-flowgen/internal/domain/flowgen"
	"github.com/yanqian/ai-flowgen/internal/infra/config"
	"github.com/yanqian/ai-flowgen/internal/infra/llm"
	apperrors "github.com/yanqian/ai-flowgen/pkg/errors"
	"github.com/yanqian/ai-flowgen/pkg/logger"
)

// operatorUserID tags usage rows written from the CLI.
const operatorUserID = "flowctl"

func newGenerateCmd() *cobra.Command {
	var flags requestFlags
	var userID string
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the full pipeline and print the response JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
			svc, closeFn, err := newService(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.Generate(cmd.Context(), userID, req)
			if err != nil {
				if code := apperrors.CodeOf(err); code != "" {
					return fmt.Errorf("generation failed [%s]: %w", code, err)
				}
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	bindRequestFlags(cmd, &flags)
	cmd.Flags().StringVar(&userID, "user", operatorUserID, "User id recorded in the usage log")
	return cmd
}

func newPromptCmd() *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt and output budget without calling a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			prompt := flowgen.BuildPrompt(req, flowgen.PromptConfig{
				MinOutputTokens: cfg.Flow.MinOutputTokens,
				TokensPerDay:    cfg.Flow.TokensPerDay,
				MaxOutputTokens: cfg.LLM.MaxOutputTokens,
			})
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "category: %s\ndays: %d\nmax_tokens: %d\nprompt_version: %s\n\n", prompt.Category, prompt.DayCount, prompt.OutputBudget, flowgen.SystemPromptVersion)
			fmt.Fprintf(out, "--- system ---\n%s\n\n--- user ---\n%s\n", prompt.System, prompt.User)
			return nil
		},
	}
	bindRequestFlags(cmd, &flags)
	return cmd
}

func newFingerprintCmd() *cobra.Command {
	var flags requestFlags
	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the cache key for a request",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), req.Fingerprint())
			return nil
		},
	}
	bindRequestFlags(cmd, &flags)
	return cmd
}

func (f requestFlags) request() (flowgen.GenerationRequest, error) {
	start, err := flowgen.ParseDate(f.start)
	if err != nil {
		return flowgen.GenerationRequest{}, fmt.Errorf("--start: %w", err)
	}
	end, err := flowgen.ParseDate(f.end)
	if err != nil {
		return flowgen.GenerationRequest{}, fmt.Errorf("--end: %w", err)
	}
	req := flowgen.GenerationRequest{
		Description: f.description,
		StartDate:   start,
		EndDate:     end,
		FlowName:    f.name,
		FlowColor:   colorArg(f.color),
		Timezone:    f.timezone,
	}
	if f.sourceFile != "" {
		data, err := os.ReadFile(f.sourceFile)
		if err != nil {
			return flowgen.GenerationRequest{}, fmt.Errorf("read source file: %w", err)
		}
		req.SourceText = string(data)
	}
	return req, nil
}

// colorArg passes integers through as JSON numbers and everything else as a string.
func colorArg(v string) json.RawMessage {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	if _, err := strconv.ParseInt(v, 10, 64); err == nil {
		return json.RawMessage(v)
	}
	encoded, _ := json.Marshal(v)
	return encoded
}

// newService assembles the pipeline with the same store selection as the
// server, so cache.backend and storage.required apply here too.
func newService(ctx context.Context, cfg *config.Config, log *slog.Logger) (flowgen.Service, func(), error) {
	provider, err := llm.NewProvider(cfg.LLM, log)
	if err != nil {
		return nil, nil, err
	}
	pool, closePool, err := bootstrap.PostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	cache, closeCache := bootstrap.CacheStore(cfg, pool, log)
	usage := bootstrap.UsageLog(cfg, pool, log)
	closeFn := func() {
		closeCache()
		closePool()
	}

	svc := flowgen.NewService(bootstrap.FlowConfig(cfg), provider, cache, usage, bootstrap.TokenEstimator(log), bootstrap.RawArchive(cfg, log), log)
	return svc, closeFn, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
