package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ablejobs/matchcore/internal/logger"
	"github.com/ablejobs/matchcore/internal/match"
	"github.com/ablejobs/matchcore/internal/ranking"
	"github.com/ablejobs/matchcore/internal/service"
)

const (
	PromptThreshold = "Apply a minimum score"
	PromptReset     = "Show all results"
	PromptToFile    = "Dump results to file"
	PromptExit      = "Exit"
)

var errExit = errors.New("exit requested")

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score applicants, résumés or people matches and print them as JSON",
}

var scoreApplicantsCmd = &cobra.Command{
	Use:   "applicants <job-id>",
	Short: "Score and rank every applicant of a job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd, func(ctx context.Context, svc *service.Service, l *zap.Logger) error {
			return scoreApplicants(ctx, cmd, svc, l, args[0])
		})
	},
}

var scoreResumeCmd = &cobra.Command{
	Use:   "resume <job-id>",
	Short: "Score résumé text against a job",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd, func(ctx context.Context, svc *service.Service, _ *zap.Logger) error {
			text, err := readResume(cmd)
			if err != nil {
				return err
			}
			result, err := svc.ScoreResumeForJob(ctx, text, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		})
	},
}

var scorePeopleCmd = &cobra.Command{
	Use:   "people <user-id>",
	Short: "Rank other users by compatibility with a user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withService(cmd, func(ctx context.Context, svc *service.Service, _ *zap.Logger) error {
			results, err := svc.ScorePeopleMatches(ctx, args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), results)
		})
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.AddCommand(scoreApplicantsCmd, scoreResumeCmd, scorePeopleCmd)

	scoreApplicantsCmd.Flags().Float64P("min-percent", "m", 0, "drop applicants scoring below this value (0-100)")
	scoreApplicantsCmd.Flags().BoolP("interactive", "i", false, "re-filter the ranked list interactively")

	scoreResumeCmd.Flags().StringP("file", "f", "-", "file with the résumé text, - for stdin")
}

// withService builds the logger and the service, runs fn and exits on failure.
func withService(cmd *cobra.Command, fn func(context.Context, *service.Service, *zap.Logger) error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer l.Sync()

	config, err := getConfig()
	if err != nil {
		l.Fatal("getting a config", zap.Error(err))
	}

	l.Debug("starting the matchcore", zap.String("version", version), zap.String("command", cmd.CommandPath()))

	svc, st, err := newService(ctx, config, l)
	if err != nil {
		l.Fatal("creating the scoring service", zap.Error(err))
	}
	defer st.Close()

	if err := fn(ctx, svc, l); err != nil && !errors.Is(err, errExit) {
		l.Error("exiting", zap.Error(err))
		os.Exit(1)
	}
}

func scoreApplicants(ctx context.Context, cmd *cobra.Command, svc *service.Service, l *zap.Logger, jobID string) error {
	var threshold *float64
	if cmd.Flags().Changed("min-percent") {
		minPercent, _ := cmd.Flags().GetFloat64("min-percent")
		if err := ranking.ValidateThreshold(minPercent); err != nil {
			return fmt.Errorf("--min-percent: %w", err)
		}
		threshold = &minPercent
	}

	interactive, _ := cmd.Flags().GetBool("interactive")
	if !interactive {
		var opts []service.Option
		if threshold != nil {
			opts = append(opts, service.WithMinPercent(*threshold))
		}
		results, err := svc.ScoreApplicantsForJob(ctx, jobID, opts...)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), results)
	}

	// The interactive view keeps the full ranking so a lower threshold can bring entries back.
	ranked, err := svc.ScoreApplicantsForJob(ctx, jobID)
	if err != nil {
		return err
	}
	return refine(cmd.OutOrStdout(), newRefinement(jobID, ranked, threshold, l))
}

// refinement is the state of an interactive session: the full ranked list and the current view.
type refinement struct {
	jobID   string
	ranked  []match.MatchResult
	current []match.MatchResult
	logger  *zap.Logger
}

func newRefinement(jobID string, ranked []match.MatchResult, threshold *float64, l *zap.Logger) *refinement {
	r := &refinement{jobID: jobID, ranked: ranked, current: ranked, logger: l}
	if threshold != nil {
		r.apply(*threshold)
	}
	return r
}

// apply filters the full ranking, never the current view.
func (r *refinement) apply(minPercent float64) {
	var step ranking.Step
	r.current, step = ranking.FilterAtOrAbove(r.ranked, minPercent)
	ranking.LogStep(r.logger, step, zap.String(logger.FieldJobID, r.jobID), zap.Float64("min_percent", minPercent))
}

func (r *refinement) reset() { r.current = r.ranked }

// refine lets the user re-apply thresholds to an already ranked list. Nothing is scored again.
func refine(out io.Writer, r *refinement) error {
	menu := promptui.Select{
		Label: "What next?",
		Items: []string{PromptThreshold, PromptReset, PromptToFile, PromptExit},
	}

	for {
		r.logger.Info("current list of applicants", zap.Int("count", len(r.current)), zap.Int("total", len(r.ranked)))
		if err := writeJSON(out, r.current); err != nil {
			return err
		}

		_, action, err := menu.Run()
		if err != nil {
			return err
		}

		switch action {
		case PromptThreshold:
			minPercent, err := askThreshold()
			if err != nil {
				return err
			}
			r.apply(minPercent)
		case PromptReset:
			r.reset()
		case PromptToFile:
			filename, err := dumpToTmpFile(r.current)
			if err != nil {
				return fmt.Errorf("dump results to file: %w", err)
			}
			r.logger.Info("dumping result to file", zap.String("filename", filename))
		case PromptExit:
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func askThreshold() (float64, error) {
	p := promptui.Prompt{
		Label: "Minimum score (0-100)",
		Validate: func(input string) error {
			_, err := parsePercent(input)
			return err
		},
	}
	raw, err := p.Run()
	if err != nil {
		return 0, err
	}
	return parsePercent(raw)
}

func parsePercent(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if err := ranking.ValidateThreshold(v); err != nil {
		return 0, errors.New("must be between 0 and 100")
	}
	return v, nil
}

func readResume(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading résumé from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading résumé file %q: %w", path, err)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dumpToTmpFile(v any) (string, error) {
	f, err := os.CreateTemp("", app+"-scores-*.json")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := writeJSON(f, v); err != nil {
		return "", err
	}
	return f.Name(), nil
}
