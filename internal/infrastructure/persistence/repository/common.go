package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/homieapp/homie/internal/domain/entity"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// upsertQuery builds an insert keyed by name that updates every listed column
// on conflict. The creation timestamp is only written on insert.
func upsertQuery(table string, cols ...string) string {
	all := append([]string{"name"}, cols...)
	all = append(all, "creation", "modified")

	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	sets = append(sets, "modified = excluded.modified")

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(name) DO UPDATE SET %s",
		table,
		strings.Join(all, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", "),
		strings.Join(sets, ", "),
	)
}

// selectQuery lists name, the given columns and the timestamps
func selectQuery(table string, cols ...string) string {
	return fmt.Sprintf("SELECT name, %s, creation, modified FROM %s", strings.Join(cols, ", "), table)
}

// stamp fills creation on first save and always bumps modified
func stamp(m *entity.Meta, now time.Time) {
	if m.Creation.IsZero() {
		m.Creation = now
	}
	m.Modified = now
}

// args appends the meta columns around the record's own values in column order
func args(m *entity.Meta, values ...interface{}) []interface{} {
	out := make([]interface{}, 0, len(values)+3)
	out = append(out, m.Name)
	out = append(out, values...)
	return append(out, m.Creation, m.Modified)
}

func requireName(kind entity.Kind, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("cannot save %s without a name", kind)
	}
	return nil
}
