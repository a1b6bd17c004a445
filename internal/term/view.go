// Package term renders the controllers' view boundaries on a plain
// terminal, so the booking flow and catalog can be driven from the
// command line against any backend speaking the rental API.
package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"velorent/internal/controller"
	"velorent/internal/entities"
)

// View implements controller.CatalogView, controller.BookingView and
// controller.PickerFactory over a reader/writer pair.
type View struct {
	in  *bufio.Reader
	out io.Writer

	mu      sync.Mutex
	pickers map[string]*PromptPicker
}

func NewView(in io.Reader, out io.Writer) *View {
	return &View{
		in:      bufio.NewReader(in),
		out:     out,
		pickers: make(map[string]*PromptPicker),
	}
}

// --- CatalogView ---

func (v *View) RenderVehicles(vehicles []entities.Vehicle) {
	if len(vehicles) == 0 {
		fmt.Fprintln(v.out, "No vehicles found.")
		return
	}
	for _, veh := range vehicles {
		fmt.Fprintf(v.out, "[%d] %s  $%g/%s\n", veh.ID, veh.Name, veh.Price, veh.PriceUnit)
		if len(veh.Features) > 0 {
			fmt.Fprintf(v.out, "    %s\n", strings.Join(veh.Features, " · "))
		}
	}
}

func (v *View) RenderPagination(p controller.Pagination) {
	if !p.Visible {
		return
	}
	prev, next := "prev", "next"
	if !p.PrevEnabled {
		prev = "----"
	}
	if !p.NextEnabled {
		next = "----"
	}
	fmt.Fprintf(v.out, "<%s>  %s  <%s>\n", prev, p.Label, next)
}

func (v *View) RenderCatalogError(message string) {
	fmt.Fprintln(v.out, message)
}

// --- BookingView ---

func (v *View) OpenRentalDialog(veh entities.Vehicle) {
	fmt.Fprintf(v.out, "\nRenting %s\n", veh.Name)
}

// CloseRentalDialog hides nothing on a terminal; the flow simply ends.
func (v *View) CloseRentalDialog() {}

func (v *View) ResetForm() {}

func (v *View) RenderSummary(s controller.RentalSummary) {
	fmt.Fprintf(v.out, "  vehicle: %s  rate: %s  duration: %s  total: %s\n",
		s.Vehicle, s.Rate, s.Duration, s.Total)
}

func (v *View) Alert(message string) {
	fmt.Fprintf(v.out, "!! %s\n", message)
}

func (v *View) Navigate(url string) {
	fmt.Fprintf(v.out, "Continue at: %s\n", url)
}

// --- PickerFactory ---

// NewPicker builds a prompt-based picker for the named form field.
func (v *View) NewPicker(field string, min time.Time, disabled []string) controller.Picker {
	p := &PromptPicker{view: v, field: field, min: min, disabled: make(map[string]bool, len(disabled))}
	for _, d := range disabled {
		p.disabled[d] = true
	}
	v.mu.Lock()
	v.pickers[field] = p
	v.mu.Unlock()
	return p
}

// Picker returns the live picker bound to the field, or nil.
func (v *View) Picker(field string) *PromptPicker {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pickers[field]
}

// ReadLine prompts and reads one trimmed input line.
func (v *View) ReadLine(prompt string) (string, error) {
	fmt.Fprint(v.out, prompt)
	line, err := v.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptPicker is a date picker that validates typed input against
// its minimum date and disabled-date set.
type PromptPicker struct {
	view     *View
	field    string
	min      time.Time
	disabled map[string]bool
	dead     bool
}

func (p *PromptPicker) SetMinDate(min time.Time) { p.min = min }

func (p *PromptPicker) Destroy() {
	p.dead = true
	p.view.mu.Lock()
	if p.view.pickers[p.field] == p {
		delete(p.view.pickers, p.field)
	}
	p.view.mu.Unlock()
}

// Ask prompts until the user types an acceptable YYYY-MM-DD date.
func (p *PromptPicker) Ask() (string, error) {
	minDay := p.min.Format("2006-01-02")
	for {
		line, err := p.view.ReadLine(fmt.Sprintf("%s (YYYY-MM-DD, earliest %s): ", p.field, minDay))
		if err != nil {
			return "", err
		}
		if _, err := time.Parse("2006-01-02", line); err != nil {
			fmt.Fprintln(p.view.out, "Not a valid date.")
			continue
		}
		// YYYY-MM-DD compares chronologically as a string.
		if line < minDay {
			fmt.Fprintf(p.view.out, "Earliest selectable date is %s.\n", minDay)
			continue
		}
		if p.disabled[line] {
			fmt.Fprintln(p.view.out, "That date is already booked.")
			continue
		}
		return line, nil
	}
}
