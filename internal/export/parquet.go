package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/household-archive/boxcat/internal/models"
	"github.com/parquet-go/parquet-go"
)

// ItemRow is the flat, analysis-friendly projection of an item. Sequence
// fields are joined so the snapshot stays a simple columnar table.
type ItemRow struct {
	ID          string `parquet:"id"`
	BoxID       string `parquet:"box_id"`
	BoxFriendly string `parquet:"box_friendly"`
	Category    string `parquet:"category"`
	ItemName    string `parquet:"item_name"`
	Quantity    int32  `parquet:"quantity"`
	Description string `parquet:"description"`
	Notes       string `parquet:"notes"`
	People      string `parquet:"people"`
	Tags        string `parquet:"tags"`
	DateFound   string `parquet:"date_found"`
	Publication string `parquet:"publication"`
	BoxMoves    int32  `parquet:"box_moves"`
	Edited      bool   `parquet:"edited"`
}

func flattenItem(item *models.Item) ItemRow {
	row := ItemRow{
		ID:          item.ID,
		BoxID:       item.BoxID,
		BoxFriendly: item.BoxFriendly,
		Category:    item.Category,
		ItemName:    item.ItemName,
		Quantity:    int32(item.Quantity),
		Description: item.Description,
		Notes:       item.Notes,
		People:      strings.Join(item.People, "; "),
		Tags:        strings.Join(item.Tags, "; "),
		DateFound:   item.DateFound,
		BoxMoves:    int32(len(item.BoxHistory)),
		Edited:      item.Edited,
	}
	if item.Pub != nil {
		row.Publication = item.Pub.PublicationName
	}
	return row
}

// WriteSnapshot writes the reconciled items to a Parquet file for offline
// analysis.
func WriteSnapshot(path string, items []*models.Item) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[ItemRow](file)

	rows := make([]ItemRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, flattenItem(item))
	}
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write snapshot rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize snapshot: %w", err)
	}
	return nil
}
