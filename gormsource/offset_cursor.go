package gormsource

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

// OffsetCursor is the position of a row in a LIMIT/OFFSET query: the number
// of rows up to and including it.
type OffsetCursor struct {
	offset int
}

func NewOffsetCursor(offset int) *OffsetCursor {
	return &OffsetCursor{offset: offset}
}

// DecodeOffsetCursor parses the output of OffsetCursor.String. An empty
// string decodes to a nil cursor, i.e. offset zero.
func DecodeOffsetCursor(s string) (*OffsetCursor, error) {
	if len(s) == 0 {
		return nil, nil
	}

	data, err := _encoder.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 encoded offset cursor: %w", err)
	}

	offset, err := strconv.Atoi(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode offset cursor value: %w", err)
	} else if offset < 0 {
		return nil, fmt.Errorf("negative offset cursor value %d", offset)
	}

	return &OffsetCursor{offset: offset}, nil
}

// String - implements fmt.Stringer.
func (c *OffsetCursor) String() string {
	if c.IsEmpty() {
		return ""
	}

	return _encoder.EncodeToString([]byte(strconv.Itoa(c.offset)))
}

func (c *OffsetCursor) IsEmpty() bool {
	return c == nil || c.offset == 0
}

func (c *OffsetCursor) GetOffset() int {
	if c == nil {
		return 0
	}

	return c.offset
}

// Apply adds the offset to a gorm query.
func (c *OffsetCursor) Apply(db *gorm.DB) *gorm.DB {
	return db.Offset(c.GetOffset())
}
