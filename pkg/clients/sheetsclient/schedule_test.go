package sheetsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSheets struct {
	tabs      map[string][][]interface{}
	created   []string
	getErr    error
	updateErr error
}

func (f *fakeSheets) GetValues(_ context.Context, _, sheetRange string) ([][]interface{}, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.tabs[tabOf(sheetRange)], nil
}

func (f *fakeSheets) UpdateValues(_ context.Context, _, sheetRange string, values [][]interface{}) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.tabs[tabOf(sheetRange)] = values
	return nil
}

func (f *fakeSheets) CreateSheet(_ context.Context, _, title string) (int64, error) {
	f.created = append(f.created, title)
	f.tabs[title] = nil
	return int64(len(f.created)), nil
}

func (f *fakeSheets) SheetExists(_ context.Context, _, title string) (bool, error) {
	_, ok := f.tabs[title]
	return ok, nil
}

func tabOf(sheetRange string) string {
	for i := len(sheetRange) - 1; i >= 0; i-- {
		if sheetRange[i] == '!' {
			return sheetRange[:i]
		}
	}
	return sheetRange
}

func november() *PublishedSchedule {
	return &PublishedSchedule{
		Title:   "November 2025",
		Columns: []string{"Early", "Late"},
		Rows: []PublishedScheduleRow{
			{Date: "Sat Nov 01 2025", Cells: []string{"Anna", "Ben"}},
			{Date: "Sun Nov 02 2025", Cells: []string{"UNFILLED"}},
		},
	}
}

func TestPublishSchedule_CreatesTab(t *testing.T) {
	api := &fakeSheets{tabs: map[string][][]interface{}{}}

	require.NoError(t, publishSchedule(context.Background(), api, "sheet-id", november()))

	assert.Equal(t, []string{"November 2025"}, api.created)
	values := api.tabs["November 2025"]
	require.Len(t, values, 3)
	assert.Equal(t, []interface{}{"Date", "Early", "Late", "Notes"}, values[0])
	assert.Equal(t, []interface{}{"Sat Nov 01 2025", "Anna", "Ben", ""}, values[1])
	assert.Equal(t, []interface{}{"Sun Nov 02 2025", "UNFILLED", "", ""}, values[2])
}

func TestPublishSchedule_KeepsNotesOnUpdate(t *testing.T) {
	api := &fakeSheets{tabs: map[string][][]interface{}{
		"November 2025": {
			{"Date", "Early", "Notes"},
			{"Sun Nov 02 2025", "Cem", "delivery at 9"},
			{"Sat Nov 01 2025", "Dora"},
		},
	}}

	require.NoError(t, publishSchedule(context.Background(), api, "sheet-id", november()))

	assert.Empty(t, api.created)
	values := api.tabs["November 2025"]
	assert.Equal(t, []interface{}{"Sat Nov 01 2025", "Anna", "Ben", ""}, values[1])
	assert.Equal(t, []interface{}{"Sun Nov 02 2025", "UNFILLED", "", "delivery at 9"}, values[2])
}

func TestPublishSchedule_Errors(t *testing.T) {
	err := publishSchedule(context.Background(), &fakeSheets{tabs: map[string][][]interface{}{}}, "id", &PublishedSchedule{})
	assert.Error(t, err)

	api := &fakeSheets{tabs: map[string][][]interface{}{"November 2025": nil}, getErr: errors.New("quota")}
	err = publishSchedule(context.Background(), api, "id", november())
	assert.ErrorContains(t, err, "quota")

	api = &fakeSheets{tabs: map[string][][]interface{}{}, updateErr: errors.New("forbidden")}
	err = publishSchedule(context.Background(), api, "id", november())
	assert.ErrorContains(t, err, "forbidden")
}
