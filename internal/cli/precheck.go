package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/repository"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/database"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

func newPrecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "precheck",
		Short: "Run the feasibility checks against the configured database",
		Long:  "precheck reads the current master data and reports the first room capacity, course hours or teacher load conflict without invoking the solver.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			snapshot, err := repository.NewMasterDataRepository(db).Snapshot(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "teachers=%d rooms=%d courses=%d slots=%d groups=%d\n",
				len(snapshot.Teachers), len(snapshot.Rooms), len(snapshot.Courses), len(snapshot.Slots), len(snapshot.Groups))
			for _, drift := range service.CatalogDrift(snapshot.Slots) {
				if drift.CodecKey == "" {
					fmt.Fprintf(out, "warning: slot %s does not decode to a weekly position\n", drift.SlotID)
					continue
				}
				fmt.Fprintf(out, "warning: slot %s is %s P%d in the catalog but %s by position\n",
					drift.SlotID, drift.CatalogDay, drift.CatalogPeriod, drift.CodecKey)
			}

			if err := service.NewFeasibilityChecker(logr).Check(snapshot); err != nil {
				appErr := appErrors.FromError(err)
				logr.Warn("precheck failed", zap.String("code", appErr.Code))
				return fmt.Errorf("%s: %s %s", appErr.Code, appErr.Message, appErr.Details)
			}
			fmt.Fprintln(out, "precheck passed")
			return nil
		},
	}
}
