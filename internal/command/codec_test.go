package command

import (
	"testing"

	"github.com/file-butler/go/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestMoveFileRoundTrip(t *testing.T) {
	cmd := MoveFile{
		CmdID:       "c1",
		FileID:      "f1",
		From:        "/src/a.pdf",
		To:          "/dst/a.pdf",
		PriorStatus: types.StatusReady,
	}

	data, err := EncodeJSON(cmd)
	assert.NoError(t, err)

	decoded, err := DecodeJSON(data)
	assert.NoError(t, err)
	assert.Equal(t, cmd, decoded)
}

func TestBulkMoveRoundTrip(t *testing.T) {
	cmd := BulkMove{
		CmdID: "bulk",
		Note:  "organize 2 files",
		Moves: []MoveFile{
			{CmdID: "bulk", FileID: "f1", From: "/src/a", To: "/dst/a", PriorStatus: types.StatusPending},
			{CmdID: "bulk", FileID: "f2", From: "/src/b", To: "/dst/b", PriorStatus: types.StatusReady},
		},
	}

	data, err := EncodeJSON(cmd)
	assert.NoError(t, err)

	decoded, err := DecodeJSON(data)
	assert.NoError(t, err)
	assert.Equal(t, cmd, decoded)
	assert.Equal(t, "organize 2 files", decoded.Describe())
}

func TestUnknownCommandKindIsRejected(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"kind":"copy_file","payload":{}}`))
	assert.Error(t, err)

	var unknown *UnknownKindError
	assert.ErrorAs(t, err, &unknown)
	assert.Equal(t, "copy_file", unknown.Kind)
}

func TestInverseSwapsEndpoints(t *testing.T) {
	cmd := MoveFile{CmdID: "c1", FileID: "f1", From: "/a", To: "/b", PriorStatus: types.StatusReady}
	inv := cmd.Inverse()
	assert.Equal(t, "/b", inv.From)
	assert.Equal(t, "/a", inv.To)
	assert.Equal(t, types.StatusReady, inv.PriorStatus)

	// Inverting twice yields the original.
	assert.Equal(t, cmd, inv.Inverse())
}
