package internal

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,required=true"`
	AccountID      string `env:"ACCOUNT_ID,required=true"`
	LocalPeer      string `env:"LOCAL_PEER,required=true"`

	EventBufferSize int `env:"EVENT_BUFFER_SIZE"`
	OrphanTableCap  int `env:"ORPHAN_TABLE_CAP"`
	SearchLimit     int `env:"SEARCH_LIMIT"`
	DebugPort       int `env:"DEBUG_PORT"`
}
