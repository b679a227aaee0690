// Package display renders the view model for the terminal with lipgloss.
//
// The Render* functions are pure and return strings; [Printer] writes
// styled lines to an io.Writer and is safe for concurrent use so the
// controller's subscribers and the prompt loop can share stdout.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/view"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is muted slate for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Chat is soft sky blue for assistant lines.
	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	// Headers are soft mint.
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Secondary text is dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	favStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f9a8d4"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	checkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b")).
			Strikethrough(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#18181b")).
			Background(lipgloss.Color("#bbf7d0")).
			Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))
)

// ── Printer ─────────────────────────────────────────────────────

// Printer writes styled lines to an output. Thread-safe.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// NewPrinter creates a printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Println prints a line.
func (p *Printer) Println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, a...)
}

// Printf prints formatted text on its own line.
func (p *Printer) Printf(format string, a ...any) {
	p.Println(fmt.Sprintf(format, a...))
}

// Print writes a pre-rendered block as is.
func (p *Printer) Print(block string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, block)
	if !strings.HasSuffix(block, "\n") {
		io.WriteString(p.out, "\n")
	}
}

// PrintChat prints an assistant line.
func (p *Printer) PrintChat(text string) {
	p.Println(chatStyle.Render("  " + text))
}

// PrintHint prints dimmed metadata.
func (p *Printer) PrintHint(text string) {
	p.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error or warning.
func (p *Printer) PrintUrgent(text string) {
	p.Println(urgentStyle.Render("  " + text))
}

// Prompt writes the input prompt without a newline.
func (p *Printer) Prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, promptStyle.Render("nutriveda")+secondaryStyle.Render("> "))
}

// ── Renderers ───────────────────────────────────────────────────

// RenderRecipeList renders recipes as numbered one-line entries with a
// metadata line underneath. The numbers are 1-based positions in recipes.
func RenderRecipeList(title string, recipes []domain.Recipe) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteByte('\n')
	if len(recipes) == 0 {
		b.WriteString(secondaryStyle.Render("  No recipes match."))
		b.WriteByte('\n')
		return b.String()
	}
	for i, r := range recipes {
		fmt.Fprintf(&b, "  %s %s%s\n",
			secondaryStyle.Render(fmt.Sprintf("[%d]", i+1)),
			primaryStyle.Render(r.Name),
			heart(r))
		b.WriteString(secondaryStyle.Render("      " + meta(r)))
		b.WriteByte('\n')
		if len(r.HealthTags) > 0 {
			b.WriteString("      " + tagStyle.Render(strings.Join(r.HealthTags, " · ")))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// RenderRecipe renders one recipe as a bordered card with ingredients and
// numbered steps.
func RenderRecipe(r domain.Recipe) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(r.Name) + heart(r))
	b.WriteByte('\n')
	b.WriteString(secondaryStyle.Render(meta(r)))
	b.WriteByte('\n')
	if r.Description != "" {
		b.WriteString(chatStyle.Render(r.Description))
		b.WriteByte('\n')
	}
	if len(r.HealthTags) > 0 {
		b.WriteString(tagStyle.Render(strings.Join(r.HealthTags, " · ")))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(headerStyle.Render("Ingredients"))
	b.WriteByte('\n')
	for _, ing := range r.Ingredients {
		line := "- " + ing.Name
		if ing.Quantity != "" {
			line += " (" + ing.Quantity + ")"
		}
		b.WriteString(primaryStyle.Render(line))
		b.WriteByte('\n')
	}

	if len(r.Steps) > 0 {
		b.WriteByte('\n')
		b.WriteString(headerStyle.Render("Steps"))
		b.WriteByte('\n')
		for i, step := range r.Steps {
			b.WriteString(primaryStyle.Render(fmt.Sprintf("%d. %s", i+1, step)))
			b.WriteByte('\n')
		}
	}
	return cardStyle.Render(strings.TrimRight(b.String(), "\n")) + "\n"
}

// RenderShopping renders the shopping list, numbered, with a badge
// counting the unchecked items.
func RenderShopping(items []domain.ShoppingItem) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Shopping List") + " " +
		badgeStyle.Render(fmt.Sprintf("%d Remaining", view.Remaining(items))))
	b.WriteByte('\n')
	if len(items) == 0 {
		b.WriteString(secondaryStyle.Render("  Your list is empty. Add ingredients from a recipe with 'add <n>'."))
		b.WriteByte('\n')
		return b.String()
	}
	for i, item := range items {
		box := "[ ]"
		if item.Checked {
			box = "[x]"
		}
		text := item.Name
		if item.Quantity != "" {
			text += " (" + item.Quantity + ")"
		}
		style := primaryStyle
		if item.Checked {
			style = checkedStyle
		}
		line := fmt.Sprintf("  %s %s %s",
			secondaryStyle.Render(fmt.Sprintf("%2d.", i+1)), box, style.Render(text))
		if item.RecipeName != "" {
			line += " " + secondaryStyle.Render("for "+item.RecipeName)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderProfile renders the preferences and who they belong to.
func RenderProfile(p domain.UserPreferences, s domain.Session) string {
	account := "guest (changes stay on this device)"
	switch {
	case s.Absent():
		account = "not signed in"
	case !s.IsGuest():
		account = s.Email
	}

	rows := [][2]string{
		{"Name", p.Name},
		{"Account", account},
		{"Diet", p.DietaryPreference.String()},
		{"Allergies", listOrNone(p.Allergies)},
		{"Deficiencies", listOrNone(p.Deficiencies)},
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("Profile"))
	b.WriteByte('\n')
	for _, row := range rows {
		fmt.Fprintf(&b, "  %s %s\n",
			secondaryStyle.Render(fmt.Sprintf("%-13s", row[0])),
			primaryStyle.Render(row[1]))
	}
	return b.String()
}

// helpRows lists the prompt commands in display order.
var helpRows = [][2]string{
	{"list / recipes", "Show all recipes"},
	{"kitchen", "Show your favorite recipes"},
	{"search <text>", "Search by name, health tag or cuisine"},
	{"cuisine <name>", "Filter by cuisine (north, south, east, west, fusion, all)"},
	{"<n> / show <n>", "Open a recipe from the last listing"},
	{"fav <n>", "Toggle a recipe as favorite"},
	{"add <n>", "Add a recipe's ingredients to the shopping list"},
	{"shopping", "Show the shopping list"},
	{"check <n>", "Tick or untick a shopping item"},
	{"remove <n>", "Remove a shopping item"},
	{"clear", "Clear the shopping list"},
	{"copy", "Copy the shopping list to the clipboard"},
	{"profile", "Show your profile"},
	{"name <text>", "Change your display name"},
	{"diet <type>", "Vegetarian, Non-Vegetarian, Vegan or Jain"},
	{"allergies <a, b>", "Replace your allergies (empty clears)"},
	{"deficiencies <a, b>", "Replace your deficiencies (empty clears)"},
	{"recommend", "Ask the AI for a recipe suited to you"},
	{"login <email|token>", "Sign in"},
	{"guest", "Continue as guest"},
	{"logout", "Sign out"},
	{"help", "Show this message"},
	{"quit / exit", "Leave"},
}

// RenderHelp renders the command reference.
func RenderHelp() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Commands:"))
	b.WriteByte('\n')
	for _, row := range helpRows {
		fmt.Fprintf(&b, "  %s %s\n",
			primaryStyle.Render(fmt.Sprintf("%-20s", row[0])),
			secondaryStyle.Render(row[1]))
	}
	return b.String()
}

func heart(r domain.Recipe) string {
	if r.IsFavorite {
		return " " + favStyle.Render("♥")
	}
	return ""
}

func meta(r domain.Recipe) string {
	parts := []string{string(r.Cuisine)}
	if r.PrepTime != "" {
		parts = append(parts, r.PrepTime)
	}
	if r.Calories > 0 {
		parts = append(parts, fmt.Sprintf("%d kcal", r.Calories))
	}
	return strings.Join(parts, " · ")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
