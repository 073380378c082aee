// Package maintenance holds one-off data repairs run from homiectl.
package maintenance

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/homieapp/homie/internal/application/port"
	"github.com/homieapp/homie/internal/domain/entity"
)

// NamingStore finds and renames records
type NamingStore interface {
	port.RecordRenamer
	Exists(ctx context.Context, kind entity.Kind, name string) (bool, error)
}

// NamingFixKinds are the kinds whose records were once stored with bare numeric names
var NamingFixKinds = []entity.Kind{entity.KindAnimalInformation, entity.KindDelivery}

// RenameResult reports what FixNaming did for one kind
type RenameResult struct {
	Kind    entity.Kind `json:"kind"`
	Renamed []string    `json:"renamed"`
	Skipped []string    `json:"skipped"`
}

// FixNaming renames records whose name is only digits to the kind's
// naming series format, e.g. "17" becomes "AND-00017". A record is left
// alone when its target name is already taken. With dryRun set nothing is
// written.
func FixNaming(ctx context.Context, store NamingStore, kinds []entity.Kind, dryRun bool, logger *zap.Logger) ([]RenameResult, error) {
	results := make([]RenameResult, 0, len(kinds))
	for _, kind := range kinds {
		info, ok := kind.Info()
		if !ok {
			return results, fmt.Errorf("unknown record kind %q", kind)
		}

		names, err := store.NumericNames(ctx, kind)
		if err != nil {
			return results, err
		}

		res := RenameResult{Kind: kind}
		for _, old := range names {
			n, err := strconv.ParseInt(old, 10, 64)
			if err != nil {
				return results, fmt.Errorf("%s %q is not numeric: %w", kind, old, err)
			}
			target := fmt.Sprintf("%s-%0*d", info.Prefix, info.Width, n)

			taken, err := store.Exists(ctx, kind, target)
			if err != nil {
				return results, err
			}
			if taken {
				logger.Warn("Rename target already exists",
					zap.String("kind", string(kind)),
					zap.String("from", old),
					zap.String("to", target))
				res.Skipped = append(res.Skipped, old)
				continue
			}

			if !dryRun {
				if err := store.Rename(ctx, kind, old, target); err != nil {
					return append(results, res), err
				}
			}
			res.Renamed = append(res.Renamed, old+" -> "+target)
		}

		logger.Info("Naming fixed",
			zap.String("kind", string(kind)),
			zap.Int("renamed", len(res.Renamed)),
			zap.Int("skipped", len(res.Skipped)),
			zap.Bool("dry_run", dryRun))
		results = append(results, res)
	}
	return results, nil
}
