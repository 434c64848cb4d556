// Package export decodes block exports (record maps keyed by block
// identifier) into a models.Table.
package export

import (
	"errors"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/mithrel/blockmark/pkg/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrNoBlocks is returned when a payload holds no block map.
	ErrNoBlocks = errors.New("export: no blocks found")
	// ErrMalformed is returned when a payload is not a JSON record map.
	ErrMalformed = errors.New("export: malformed payload")
)

type rawRecord struct {
	Role  string              `json:"role"`
	Value jsoniter.RawMessage `json:"value"`
}

type rawBlock struct {
	ID         string                         `json:"id"`
	Type       string                         `json:"type"`
	ParentID   string                         `json:"parent_id"`
	Properties map[string]jsoniter.RawMessage `json:"properties"`
	Content    *[]string                      `json:"content"`
	Format     map[string]any                 `json:"format"`
	FileIDs    []string                       `json:"file_ids"`
}

// Decode reads a whole export from r.
func Decode(r io.Reader) (models.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	return DecodeBytes(b)
}

// DecodeBytes decodes an export payload. Three shapes are accepted: a page
// chunk response ({"recordMap": {...}}), a bare record map ({"block": {...},
// "collection": {...}}) and a bare block map ({"<id>": {"value": {...}}}).
//
// Records of the block map that do not describe a block, and every record
// of the other maps, are kept as unresolved records so that references to
// them resolve to "nothing to render" rather than "missing".
func DecodeBytes(payload []byte) (models.Table, error) {
	body := jsoniter.RawMessage(payload)
	var top map[string]jsoniter.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: decode export: %w", ErrMalformed, err)
	}
	if rm, ok := top["recordMap"]; ok {
		body, top = rm, nil
		if err := json.Unmarshal(body, &top); err != nil {
			return nil, fmt.Errorf("%w: decode recordMap: %w", ErrMalformed, err)
		}
	}

	blockMap, ok := top["block"]
	if !ok {
		if len(top) == 0 {
			return nil, ErrNoBlocks
		}
		return decodeBlockMap(body)
	}

	table, err := decodeBlockMap(blockMap)
	if err != nil {
		return nil, err
	}
	for name, raw := range top {
		if name == "block" {
			continue
		}
		var records map[string]jsoniter.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			// Not a record map (e.g. a version number); ignore.
			continue
		}
		for id, rec := range records {
			if _, taken := table[id]; taken {
				continue
			}
			table[id] = models.Record{Raw: rec}
		}
	}
	return table, nil
}

func decodeBlockMap(raw jsoniter.RawMessage) (models.Table, error) {
	var records map[string]rawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: decode block map: %w", ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, ErrNoBlocks
	}
	table := make(models.Table, len(records))
	for id, rec := range records {
		table[id] = decodeRecord(id, rec)
	}
	return table, nil
}

func decodeRecord(id string, rec rawRecord) models.Record {
	out := models.Record{Role: rec.Role, Raw: rec.Value}
	var b rawBlock
	if len(rec.Value) == 0 || json.Unmarshal(rec.Value, &b) != nil || b.Type == "" {
		return out
	}
	if b.ID == "" {
		b.ID = id
	}
	v := &models.Value{
		ID:       b.ID,
		ParentID: b.ParentID,
		Block:    decodeKind(b),
	}
	if b.Content != nil {
		v.Content = append(make([]string, 0, len(*b.Content)), *b.Content...)
	}
	return models.Record{Role: rec.Role, Value: v}
}

func decodeKind(b rawBlock) models.Kind {
	switch b.Type {
	case "page":
		p := models.Page{Format: b.Format, FileIDs: b.FileIDs}
		if props := decodeTextProperties(b.Properties); props != nil {
			p.Properties.Title = props.Title
		}
		return p
	case "text":
		return models.Text{Properties: decodeTextProperties(b.Properties)}
	case "bulleted_list":
		return models.BulletedList{Properties: decodeTextProperties(b.Properties)}
	case "numbered_list":
		return models.NumberedList{}
	default:
		return models.Unsupported{Name: b.Type}
	}
}

// decodeTextProperties returns nil when the block has no title property.
func decodeTextProperties(props map[string]jsoniter.RawMessage) *models.TextProperties {
	raw, ok := props["title"]
	if !ok {
		return nil
	}
	return &models.TextProperties{Title: decodeTitle(raw)}
}
