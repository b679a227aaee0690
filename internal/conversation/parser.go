// Package conversation turns prompt input into commands and reports
// controller state changes back to the user.
package conversation

import (
	"context"
	"regexp"
	"strings"

	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/logger"
)

// Compile-time interface check.
var _ domain.CommandParser = (*KeywordParser)(nil)

// KeywordParser matches user input to commands using keywords and simple
// patterns. Anything it cannot place comes back as CommandUnknown with the
// input as payload, ready for the AI classifier.
type KeywordParser struct {
	log      *logger.Logger
	patterns []patternRule
}

// patternRule maps a regex to a command. When the regex has a capture
// group, its first group becomes the payload.
type patternRule struct {
	regex   *regexp.Regexp
	command domain.CommandType
}

// NewKeywordParser creates a keyword-based command parser.
func NewKeywordParser(log *logger.Logger) *KeywordParser {
	p := &KeywordParser{log: log}
	p.patterns = []patternRule{
		// Bare keywords.
		{regexp.MustCompile(`(?i)^(?:list|recipes|all|browse)$`), domain.CommandList},
		{regexp.MustCompile(`(?i)^(?:kitchen|my kitchen|favorites|favourites|favs)$`), domain.CommandKitchen},
		{regexp.MustCompile(`(?i)^(?:shopping|shop|cart|groceries)$`), domain.CommandShopping},
		{regexp.MustCompile(`(?i)^(?:clear|clear list|empty list)$`), domain.CommandClear},
		{regexp.MustCompile(`(?i)^(?:copy|export)$`), domain.CommandCopy},
		{regexp.MustCompile(`(?i)^(?:profile|me|prefs)$`), domain.CommandProfile},
		{regexp.MustCompile(`(?i)^(?:recommend|suggest|ai|surprise me)$`), domain.CommandRecommend},
		{regexp.MustCompile(`(?i)^(?:guest|continue as guest)$`), domain.CommandGuest},
		{regexp.MustCompile(`(?i)^(?:logout|log out|sign out|signout)$`), domain.CommandLogout},
		{regexp.MustCompile(`(?i)^(?:help|h|\?)$`), domain.CommandHelp},
		{regexp.MustCompile(`(?i)^(?:quit|exit|q|bye)$`), domain.CommandQuit},

		// Keyword plus argument.
		{regexp.MustCompile(`(?i)^(?:search|find|s)\s+(.+)$`), domain.CommandSearch},
		{regexp.MustCompile(`(?i)^cuisine(?:\s+(.+))?$`), domain.CommandCuisine},
		{regexp.MustCompile(`(?i)^(?:show|view|open)\s+(.+)$`), domain.CommandShow},
		{regexp.MustCompile(`(?i)^(?:fav|favorite|favourite|unfav|heart)\s+(.+)$`), domain.CommandFavorite},
		{regexp.MustCompile(`(?i)^(?:add|buy)\s+(.+)$`), domain.CommandAddToList},
		{regexp.MustCompile(`(?i)^(?:check|tick|uncheck|untick)\s+(.+)$`), domain.CommandCheck},
		{regexp.MustCompile(`(?i)^(?:remove|rm|delete)\s+(.+)$`), domain.CommandRemove},
		{regexp.MustCompile(`(?i)^(?:set[- ])?name\s+(.+)$`), domain.CommandSetName},
		{regexp.MustCompile(`(?i)^(?:set[- ])?diet\s+(.+)$`), domain.CommandSetDiet},
		{regexp.MustCompile(`(?i)^(?:set[- ])?allergies(?:\s+(.*))?$`), domain.CommandSetAllergies},
		{regexp.MustCompile(`(?i)^(?:set[- ])?deficiencies(?:\s+(.*))?$`), domain.CommandSetDeficiencies},
		{regexp.MustCompile(`(?i)^(?:login|log in|sign in|signin)(?:\s+(.+))?$`), domain.CommandLogin},
	}
	return p
}

// Parse converts user input into a command.
func (p *KeywordParser) Parse(ctx context.Context, input string) (domain.Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return domain.Command{Type: domain.CommandUnknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare number opens the recipe at that position in the last listing.
	if len(trimmed) <= 3 && isDigits(trimmed) {
		return domain.Command{Type: domain.CommandShow, Payload: trimmed}, nil
	}

	for _, rule := range p.patterns {
		m := rule.regex.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		p.log.Debug("matched command: %s", rule.command)
		cmd := domain.Command{Type: rule.command}
		if len(m) > 1 {
			cmd.Payload = strings.TrimSpace(m[1])
		}
		return cmd, nil
	}

	p.log.Debug("no match, returning unknown command")
	return domain.Command{Type: domain.CommandUnknown, Payload: trimmed}, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
