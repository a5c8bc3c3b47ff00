package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Maximum number of due items listed by /due
	DueListLimit int
	// Maximum number of study sessions listed by /sessions
	SessionListLimit int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		DueListLimit:     10,
		SessionListLimit: 10,
	}
}
