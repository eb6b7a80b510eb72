package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"ticklist/internal/model"
)

// BackupPayload is the portable snapshot of a user's checklists for
// export/import. Item texts and done flags survive a round trip; ids are
// regenerated on import so a backup can be merged into any store.
type BackupPayload struct {
	Version    int               `json:"version"`
	ExportedAt time.Time         `json:"exportedAt"`
	Checklists []model.Checklist `json:"checklists"`
}

const backupVersion = 1

// backupSchema rejects malformed backups deterministically before any state
// is touched. Unknown fields are tolerated; wrong shapes are not.
const backupSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "checklists"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "exportedAt": {"type": "string"},
    "checklists": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "items"],
        "properties": {
          "id": {"type": "string"},
          "title": {"type": "string", "minLength": 1},
          "sortMode": {"type": "string", "enum": ["manual", "deadline-asc", "deadline-desc"]},
          "pinned": {"type": "boolean"},
          "archived": {"type": "boolean"},
          "items": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["text"],
              "properties": {
                "id": {"type": "string"},
                "text": {"type": "string", "minLength": 1},
                "done": {"type": "boolean"},
                "deadline": {"type": ["string", "null"], "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledBackupSchema = mustCompileBackupSchema()

func mustCompileBackupSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("backup.schema.json", strings.NewReader(backupSchema)); err != nil {
		panic(err)
	}
	return c.MustCompile("backup.schema.json")
}

// ExportBackup snapshots lists into a portable payload.
func ExportBackup(lists []model.Checklist, clk model.Clock) BackupPayload {
	if clk == nil {
		clk = model.SystemClock{}
	}
	out := model.NormalizeChecklists(append([]model.Checklist{}, lists...))
	return BackupPayload{
		Version:    backupVersion,
		ExportedAt: clk.Now().UTC(),
		Checklists: out,
	}
}

func MarshalBackup(p BackupPayload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// ImportBackup parses and validates a backup payload and appends the
// imported lists to db. Malformed input fails with a "could not parse" error
// before db is touched. Ids are regenerated so imported lists cannot collide
// with existing ones.
func ImportBackup(db *DB, data []byte) ([]model.Checklist, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("could not parse backup: %w", err)
	}
	if err := compiledBackupSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("could not parse backup: %w", err)
	}

	var p BackupPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("could not parse backup: %w", err)
	}

	// Regenerate ids before normalizing: backup items are allowed to arrive
	// without ids, and normalization drops id-less items.
	lists := p.Checklists
	start := len(db.Checklists)
	for i := range lists {
		lists[i].ID = db.NextID("chk")
		for j := range lists[i].Items {
			lists[i].Items[j].ID = db.NextID("item")
		}
		// Append as we go so NextID sees the ids just handed out.
		db.Checklists = append(db.Checklists, lists[i])
	}
	db.Checklists = append(db.Checklists[:start], model.NormalizeChecklists(db.Checklists[start:])...)
	return db.Checklists[start:], nil
}
