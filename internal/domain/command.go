package domain

// CommandType classifies what the user typed at the prompt.
type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandList
	CommandSearch
	CommandCuisine
	CommandKitchen
	CommandShow
	CommandFavorite
	CommandShopping
	CommandAddToList
	CommandCheck
	CommandRemove
	CommandClear
	CommandCopy
	CommandProfile
	CommandSetName
	CommandSetDiet
	CommandSetAllergies
	CommandSetDeficiencies
	CommandRecommend
	CommandLogin
	CommandGuest
	CommandLogout
	CommandHelp
	CommandQuit
)

// String returns the snake_case name of the command.
func (c CommandType) String() string {
	for name, t := range commandNames {
		if t == c {
			return name
		}
	}
	return "unknown"
}

// Command is a parsed line of user input.
type Command struct {
	Type    CommandType
	Payload string // argument text, e.g. a recipe id or search query
}

var commandNames = map[string]CommandType{
	"list":             CommandList,
	"search":           CommandSearch,
	"cuisine":          CommandCuisine,
	"kitchen":          CommandKitchen,
	"show":             CommandShow,
	"favorite":         CommandFavorite,
	"shopping":         CommandShopping,
	"add_to_list":      CommandAddToList,
	"check":            CommandCheck,
	"remove":           CommandRemove,
	"clear":            CommandClear,
	"copy":             CommandCopy,
	"profile":          CommandProfile,
	"set_name":         CommandSetName,
	"set_diet":         CommandSetDiet,
	"set_allergies":    CommandSetAllergies,
	"set_deficiencies": CommandSetDeficiencies,
	"recommend":        CommandRecommend,
	"login":            CommandLogin,
	"guest":            CommandGuest,
	"logout":           CommandLogout,
	"help":             CommandHelp,
	"quit":             CommandQuit,
	"unknown":          CommandUnknown,
}

// CommandFromString converts a snake_case command name to a CommandType.
// Returns CommandUnknown for unrecognized names.
func CommandFromString(name string) CommandType {
	if t, ok := commandNames[name]; ok {
		return t
	}
	return CommandUnknown
}
