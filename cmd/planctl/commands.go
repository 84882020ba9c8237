package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"load-planning-service/internal/adapters/oracle"
	"load-planning-service/internal/adapters/repositories"
	"load-planning-service/internal/app"
	"load-planning-service/internal/config"
	"load-planning-service/internal/domain"
	"load-planning-service/internal/ports"
	"load-planning-service/internal/services"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newPlanCmd(cfg config.Config, output *string) *cobra.Command {
	var (
		language  string
		capacity  float64
		skipEmail bool
		replay    string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the planning pipeline against the configured record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, closeStore, err := app.OpenStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			if err := app.SeedIfPresent(ctx, store, cfg.Store.SeedPath); err != nil {
				return err
			}

			var planOracle ports.PlanOracle
			if replay != "" {
				planOracle, err = replayOracle(replay)
				if err != nil {
					return err
				}
			} else {
				planOracle = app.NewOracle(ctx, cfg.Oracle)
			}

			planner := &services.ShipmentPlanner{
				Repo:   repositories.NewRecordMatchRepository(store),
				Oracle: planOracle,
			}

			run, err := planner.Plan(ctx, services.PlanShipmentRequest{
				Language:         language,
				TruckCapacityM3:  capacity,
				SkipCarrierEmail: skipEmail,
			})
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), *output, map[string]any{
				"run_id":            run.ID,
				"plan":              run.Plan,
				"layout":            run.Layout,
				"carrier_email":     run.CarrierEmail,
				"synthetic_matches": run.SyntheticMatches,
			})
		},
	}

	cmd.Flags().StringVar(&language, "language", cfg.PlanLanguage, "plan language (en|hu)")
	cmd.Flags().Float64Var(&capacity, "capacity", cfg.TruckCapacityM3, "truck capacity in m³")
	cmd.Flags().BoolVar(&skipEmail, "skip-email", false, "do not draft the carrier email")
	cmd.Flags().StringVar(&replay, "replay", "", "answer the plan request with this file instead of calling the oracle")
	return cmd
}

// replayOracle answers the plan request with a recorded oracle answer.
// The carrier email request then falls back to the generic text.
func replayOracle(path string) (*oracle.ScriptedOracle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("replay oracle: read %q: %w", path, err)
	}
	return oracle.NewScriptedOracle(oracle.ScriptedReply{Text: string(raw)}), nil
}

func newLayoutCmd(cfg config.Config, output *string) *cobra.Command {
	var capacity float64

	cmd := &cobra.Command{
		Use:   "layout [plan.json]",
		Short: "Lay out a recorded loading plan on the truck bed",
		Long:  "Reads a loading plan or raw oracle answer from a file, or stdin when no file is given, and prints the truck layout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("layout: read plan: %w", err)
			}

			plan, err := services.ParsePlanResponse(string(raw), time.Now())
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), *output, services.LayoutLoad(plan.Items, domain.NewTruckBed(capacity)))
		},
	}

	cmd.Flags().Float64Var(&capacity, "capacity", cfg.TruckCapacityM3, "truck capacity in m³")
	return cmd
}

// render writes v as indented JSON or as YAML. YAML keys follow the JSON
// field names.
func render(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("render: marshal json: %w", err)
	}

	switch strings.ToLower(format) {
	case "", "json":
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "yaml", "yml":
		var generic any
		if err := json.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("render: encode yaml: %w", err)
		}
		return enc.Close()

	default:
		return fmt.Errorf("render: unknown output format %q", format)
	}
}
