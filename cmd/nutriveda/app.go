package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hammamikhairi/nutriveda/internal/config"
	"github.com/hammamikhairi/nutriveda/internal/display"
	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/identity"
	"github.com/hammamikhairi/nutriveda/internal/kitchen"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/shopping"
	"github.com/hammamikhairi/nutriveda/internal/view"
)

// classifier maps free-form input to a command. *gpt.Classifier
// satisfies it.
type classifier interface {
	Classify(ctx context.Context, input string) (domain.Command, error)
}

type cliApp struct {
	ctl        *kitchen.Controller
	parser     domain.CommandParser
	classifier classifier // nil when AI is disabled
	out        *display.Printer
	lines      <-chan string
	clip       domain.Clipboard // nil when no clipboard is available
	local      *identity.Local  // set when signing in by email
	tokens     *identity.Token  // set when a JWT secret is configured
	log        *logger.Logger

	// listed is the last recipe listing; "show 2" refers to its entries.
	listed []domain.Recipe
}

func (a *cliApp) run(ctx context.Context) error {
	a.showRecipes("Recipes", view.Filter{})
	if a.ctl.Snapshot().Session.Absent() {
		a.out.PrintHint("Type 'login <email>' to sync your kitchen, or 'guest' to continue without an account.")
	}

	for {
		a.out.Prompt()

		var input string
		select {
		case <-ctx.Done():
			a.out.Println("")
			return nil
		case line, ok := <-a.lines:
			if !ok {
				a.out.Println("")
				return nil
			}
			input = line
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("command: %s (payload=%q)", cmd.Type, cmd.Payload)
		if quit := a.handle(ctx, cmd); quit {
			return nil
		}
	}
}

// handle runs one command and reports whether the app should exit.
func (a *cliApp) handle(ctx context.Context, cmd domain.Command) bool {
	switch cmd.Type {
	case domain.CommandList:
		a.showRecipes("Recipes", view.Filter{})
	case domain.CommandKitchen:
		a.showRecipes("My Kitchen", view.Filter{View: domain.ViewKitchen})
	case domain.CommandSearch:
		a.search(cmd.Payload)
	case domain.CommandCuisine:
		a.cuisine(cmd.Payload)
	case domain.CommandShow:
		a.show(cmd.Payload)
	case domain.CommandFavorite:
		a.favorite(cmd.Payload)
	case domain.CommandAddToList:
		a.addToList(cmd.Payload)
	case domain.CommandShopping:
		a.out.Print(display.RenderShopping(a.ctl.Snapshot().Shopping))
	case domain.CommandCheck:
		a.check(cmd.Payload)
	case domain.CommandRemove:
		a.remove(cmd.Payload)
	case domain.CommandClear:
		a.clear()
	case domain.CommandCopy:
		a.copyList()
	case domain.CommandProfile:
		s := a.ctl.Snapshot()
		a.out.Print(display.RenderProfile(s.Profile, s.Session))
	case domain.CommandSetName:
		a.setName(cmd.Payload)
	case domain.CommandSetDiet:
		a.setDiet(cmd.Payload)
	case domain.CommandSetAllergies:
		a.updateProfile(func(p *domain.UserPreferences) { p.Allergies = splitList(cmd.Payload) })
	case domain.CommandSetDeficiencies:
		a.updateProfile(func(p *domain.UserPreferences) { p.Deficiencies = splitList(cmd.Payload) })
	case domain.CommandRecommend:
		a.recommend(ctx)
	case domain.CommandLogin:
		a.login(ctx, cmd.Payload)
	case domain.CommandGuest:
		a.guest(ctx)
	case domain.CommandLogout:
		a.ctl.Logout(ctx)
	case domain.CommandHelp:
		a.out.Print(display.RenderHelp())
	case domain.CommandQuit:
		a.out.PrintChat("Bye! Eat well.")
		return true
	case domain.CommandUnknown:
		return a.classifyAndDispatch(ctx, cmd)
	}
	return false
}

// classifyAndDispatch sends unrecognised input to the AI for
// classification, then re-dispatches the result. Falls back to the
// generic "didn't catch that" line when the classifier is unavailable or
// still returns unknown.
func (a *cliApp) classifyAndDispatch(ctx context.Context, original domain.Command) bool {
	if a.classifier == nil {
		a.unknown(original.Payload)
		return false
	}

	classified, err := a.classifier.Classify(ctx, original.Payload)
	if err != nil {
		a.log.Error("AI classify failed: %v", err)
		a.unknown(original.Payload)
		return false
	}
	if classified.Type == domain.CommandUnknown {
		a.unknown(original.Payload)
		return false
	}

	a.log.Info("classified %q -> %s", original.Payload, classified.Type)
	return a.handle(ctx, classified)
}

func (a *cliApp) unknown(input string) {
	a.out.PrintChat(fmt.Sprintf("Sorry, I didn't catch %q. Type 'help' for commands.", input))
}

// ── Recipes ─────────────────────────────────────────────────────

func (a *cliApp) showRecipes(title string, f view.Filter) {
	a.listed = view.Project(a.ctl.Snapshot().Recipes, f)
	a.out.Print(display.RenderRecipeList(title, a.listed))
}

// search filters by text, or by an expression after "where", e.g.
// "search where calories < 300".
func (a *cliApp) search(payload string) {
	if payload == "" {
		a.out.PrintHint("Usage: search <text> | search where <expression>")
		return
	}
	if src, ok := strings.CutPrefix(payload, "where "); ok {
		pred, err := view.Compile(src)
		if err != nil {
			a.out.PrintUrgent(err.Error())
			return
		}
		a.showRecipes("Recipes where "+src, view.Filter{Where: pred})
		return
	}
	a.showRecipes(fmt.Sprintf("Recipes matching %q", payload), view.Filter{Query: payload})
}

func (a *cliApp) cuisine(payload string) {
	if payload == "" || strings.EqualFold(payload, view.AllCuisines) {
		a.showRecipes("Recipes", view.Filter{Cuisine: view.AllCuisines})
		return
	}
	c, ok := domain.CuisineFromString(payload)
	if !ok {
		a.out.PrintUrgent(fmt.Sprintf("Unknown cuisine %q. Try one of: %s", payload, strings.Join(view.Cuisines(), ", ")))
		return
	}
	a.showRecipes(c.String()+" Recipes", view.Filter{Cuisine: c.String()})
}

func (a *cliApp) show(ref string) {
	r, ok := a.findRecipe(ref)
	if !ok {
		a.noRecipe(ref)
		return
	}
	a.out.Print(display.RenderRecipe(r))
}

func (a *cliApp) favorite(ref string) {
	r, ok := a.findRecipe(ref)
	if !ok {
		a.noRecipe(ref)
		return
	}
	a.ctl.ToggleFavorite(r.ID)
	if r.IsFavorite {
		a.out.PrintChat(fmt.Sprintf("Removed %s from your kitchen.", r.Name))
	} else {
		a.out.PrintChat(fmt.Sprintf("Saved %s to your kitchen.", r.Name))
	}
}

func (a *cliApp) noRecipe(ref string) {
	if ref == "" {
		a.out.PrintHint("Which recipe? Give its number from the last listing, its id or its name.")
		return
	}
	a.out.PrintUrgent(fmt.Sprintf("No recipe matches %q.", ref))
}

func (a *cliApp) recommend(ctx context.Context) {
	a.out.PrintHint("Thinking of something for you...")
	r, err := a.ctl.Recommend(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			a.out.PrintUrgent(fmt.Sprintf("AI is disabled: set %s and %s to enable recommendations.", config.EnvGPTKey, config.EnvGPTEndpoint))
			return
		}
		a.log.Error("recommend: %v", err)
		a.out.PrintUrgent("Sorry, I couldn't come up with a recipe right now.")
		return
	}
	a.listed = append(a.listed, r)
	n := len(a.listed)
	a.out.Print(display.RenderRecipe(r))
	a.out.PrintHint(fmt.Sprintf("Type 'fav %d' to save it to your kitchen, or 'add %d' to shop for it.", n, n))
}

// ── Shopping list ───────────────────────────────────────────────

func (a *cliApp) addToList(ref string) {
	r, ok := a.findRecipe(ref)
	if !ok {
		a.noRecipe(ref)
		return
	}
	items := a.ctl.AddToShoppingList(r)
	if len(items) == 0 {
		a.out.PrintHint(fmt.Sprintf("%s has no ingredients to add.", r.Name))
		return
	}
	a.out.PrintChat(fmt.Sprintf("Added %d ingredients from %s to your shopping list.", len(items), r.Name))
}

func (a *cliApp) check(ref string) {
	item, ok := a.findItem(ref)
	if !ok {
		a.noItem(ref)
		return
	}
	a.ctl.ToggleShoppingItem(item.ID)
	if item.Checked {
		a.out.PrintChat(fmt.Sprintf("Unchecked %s.", item.Name))
	} else {
		a.out.PrintChat(fmt.Sprintf("Checked off %s.", item.Name))
	}
}

func (a *cliApp) remove(ref string) {
	item, ok := a.findItem(ref)
	if !ok {
		a.noItem(ref)
		return
	}
	a.ctl.RemoveShoppingItem(item.ID)
	a.out.PrintChat(fmt.Sprintf("Removed %s from your shopping list.", item.Name))
}

func (a *cliApp) noItem(ref string) {
	if ref == "" {
		a.out.PrintHint("Which item? Give its number from 'shopping' or its name.")
		return
	}
	a.out.PrintUrgent(fmt.Sprintf("No shopping item matches %q.", ref))
}

func (a *cliApp) clear() {
	if a.ctl.ClearShoppingList() {
		a.out.PrintChat("Shopping list cleared.")
		return
	}
	a.out.PrintHint("Kept your shopping list.")
}

func (a *cliApp) copyList() {
	items := a.ctl.Snapshot().Shopping
	text := shopping.Format(items)
	if a.clip == nil {
		a.out.Print(text)
		return
	}
	if err := a.clip.WriteText(text); err != nil {
		a.log.Warn("copy: %v", err)
		a.out.PrintUrgent("Couldn't reach the clipboard; here is the list instead:")
		a.out.Print(text)
		return
	}
	a.out.PrintChat(fmt.Sprintf("Copied %d items to the clipboard.", len(items)))
}

// ── Profile ─────────────────────────────────────────────────────

func (a *cliApp) updateProfile(edit func(*domain.UserPreferences)) {
	prefs := a.ctl.Snapshot().Profile
	edit(&prefs)
	a.ctl.UpdateProfile(prefs)
	s := a.ctl.Snapshot()
	a.out.Print(display.RenderProfile(s.Profile, s.Session))
}

func (a *cliApp) setName(name string) {
	if name == "" {
		a.out.PrintHint("Usage: name <your name>")
		return
	}
	a.updateProfile(func(p *domain.UserPreferences) { p.Name = name })
}

func (a *cliApp) setDiet(payload string) {
	d, ok := domain.DietFromString(payload)
	if !ok {
		a.out.PrintUrgent(fmt.Sprintf("Unknown diet %q. Try Vegetarian, Non-Vegetarian, Vegan or Jain.", payload))
		return
	}
	a.updateProfile(func(p *domain.UserPreferences) { p.DietaryPreference = d })
}

// splitList turns "a, b,,c" into [a b c]. An empty input yields an empty,
// non-nil list so the profile field is cleared rather than kept.
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ── Session ─────────────────────────────────────────────────────

func (a *cliApp) login(ctx context.Context, payload string) {
	if a.tokens != nil {
		if payload == "" {
			a.out.PrintHint("Usage: login <token>  (issue one with 'nutriveda token --user <id> --email <addr>')")
			return
		}
		if _, err := a.tokens.SignInWithToken(payload); err != nil {
			a.out.PrintUrgent(fmt.Sprintf("Sign in failed: %v", err))
		}
		return
	}

	fields := strings.Fields(payload)
	var userID, email string
	switch len(fields) {
	case 1:
		email = fields[0]
		userID = localUserID(email)
	case 2:
		userID, email = fields[0], fields[1]
	default:
		a.out.PrintHint("Usage: login <email>  or  login <user-id> <email>")
		return
	}
	if _, err := a.local.SignIn(userID, email); err != nil {
		a.out.PrintUrgent(fmt.Sprintf("Sign in failed: %v", err))
	}
}

func (a *cliApp) guest(ctx context.Context) {
	if a.local != nil {
		a.local.ContinueAsGuest()
		return
	}
	a.ctl.SetSession(ctx, domain.NewGuestSession())
}
