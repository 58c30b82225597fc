package app

const (
	Name           = "ltemon"
	ConfigFilename = "config.json"
	DBFilename     = "signals.db"
	LogFilename    = "ltemon.log"
)
