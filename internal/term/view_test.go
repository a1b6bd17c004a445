package term

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"velorent/internal/controller"
	"velorent/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptPickerValidatesInput(t *testing.T) {
	in := strings.NewReader("garbage\n2024-06-09\n2024-06-12\n2024-06-15\n")
	var out bytes.Buffer
	view := NewView(in, &out)

	min := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	picker := view.NewPicker("pickupDate", min, []string{"2024-06-12"})

	date, err := picker.(*PromptPicker).Ask()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-15", date)

	text := out.String()
	assert.Contains(t, text, "Not a valid date.")
	assert.Contains(t, text, "Earliest selectable date is 2024-06-10.")
	assert.Contains(t, text, "already booked")
}

func TestPickerRegistryFollowsLifecycle(t *testing.T) {
	view := NewView(strings.NewReader(""), &bytes.Buffer{})
	min := time.Now()

	first := view.NewPicker("returnDate", min, nil).(*PromptPicker)
	assert.Same(t, first, view.Picker("returnDate"))

	// A replacement takes over the field; destroying the old one
	// afterwards must not unregister the new one.
	second := view.NewPicker("returnDate", min, nil).(*PromptPicker)
	first.Destroy()
	assert.Same(t, second, view.Picker("returnDate"))

	second.Destroy()
	assert.Nil(t, view.Picker("returnDate"))
}

func TestRenderVehiclesAndPagination(t *testing.T) {
	var out bytes.Buffer
	view := NewView(strings.NewReader(""), &out)

	view.RenderVehicles([]entities.Vehicle{
		{ID: 4, Name: "Metro EV", Price: 45, PriceUnit: "day", Features: []string{"Automatic", "Fuel: Electric"}},
	})
	view.RenderPagination(controller.Pagination{Visible: true, NextEnabled: true, Label: "Page 1 of 2"})

	text := out.String()
	assert.Contains(t, text, "[4] Metro EV  $45/day")
	assert.Contains(t, text, "Automatic · Fuel: Electric")
	assert.Contains(t, text, "Page 1 of 2")

	out.Reset()
	view.RenderVehicles(nil)
	assert.Contains(t, out.String(), "No vehicles found.")

	out.Reset()
	view.RenderPagination(controller.Pagination{})
	assert.Empty(t, out.String())
}
