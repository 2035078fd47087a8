package guildconfig

import "fmt"

// BotParameters declares the configuration tree every guild starts from.
// Every leaf carries a default; unset guilds read exactly this tree.
func BotParameters() []Parameter {
	return []Parameter{
		{
			Path:    "main.prefix",
			Default: "!",
			Kinds:   []Kind{KindString},
			Check: func(value interface{}) error {
				s, ok := value.(string)
				if !ok || s == "" {
					return fmt.Errorf("prefix must be a non-empty string")
				}
				if len(s) > 10 {
					return fmt.Errorf("prefix must be at most 10 characters")
				}
				return nil
			},
		},
		{
			Path:       "log.channel",
			Default:    nil,
			Kinds:      []Kind{KindChannel},
			AllowEmpty: true,
			Human: func(value interface{}) string {
				id, ok := value.(string)
				if !ok || id == "" {
					return "(not set)"
				}
				return "<#" + id + ">"
			},
		},
		{
			Path:    "cooldowns.enabled",
			Default: true,
			Kinds:   []Kind{KindBool},
		},
		{
			Path:    "activity.lookback",
			Default: 1000,
			Kinds:   []Kind{KindInt},
			Check: func(value interface{}) error {
				n, ok := toInt(value)
				if !ok || n < 1 || n > 10000 {
					return fmt.Errorf("lookback must be between 1 and 10000")
				}
				return nil
			},
		},
	}
}

// toInt accepts the numeric shapes a JSON round trip can produce.
func toInt(value interface{}) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
