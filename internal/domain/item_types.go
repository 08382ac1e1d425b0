package domain

type OrderType string

func (o OrderType) String() string {
	return string(o)
}

const (
	OrderTypeSell OrderType = "sell"
	OrderTypeBuy  OrderType = "buy"
)

type UserStatus string

func (s UserStatus) String() string {
	return string(s)
}

const (
	UserStatusIngame  UserStatus = "ingame"  // Actively playing
	UserStatusOnline  UserStatus = "online"  // Logged into the website only
	UserStatusOffline UserStatus = "offline" // Not reachable
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps anything other than "dark" to the light theme
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
