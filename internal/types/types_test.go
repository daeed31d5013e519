package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExpandTemplateUsesModificationTime(t *testing.T) {
	f := FileRecord{ModifiedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}

	d := Destination{Folder: "Archives", Template: "{year}/{month}"}
	assert.Equal(t, "2024/03", d.ExpandTemplate(f))

	d.Template = "{year}"
	assert.Equal(t, "2024", d.ExpandTemplate(f))
}

func TestExpandTemplateEmpty(t *testing.T) {
	f := FileRecord{ModifiedAt: time.Now()}
	d := Destination{Folder: "Documents"}
	assert.Equal(t, "", d.ExpandTemplate(f))
}

func TestExpandTemplateLeavesUnknownTokens(t *testing.T) {
	f := FileRecord{ModifiedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)}
	d := Destination{Template: "{year}/{weekday}"}
	assert.Equal(t, "2024/{weekday}", d.ExpandTemplate(f))
}
