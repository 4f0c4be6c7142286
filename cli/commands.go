package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands. Every flag can also be
// set through its SPENDLOG_* environment variable.
type Globals struct {
	Ledger    string `help:"Ledger location (file for json, database for sqlite)." default:"expenses.json" env:"SPENDLOG_LEDGER" type:"path"`
	Backend   string `help:"Storage backend (${enum})." default:"json" enum:"json,sqlite,memory" env:"SPENDLOG_BACKEND"`
	Country   string `help:"Country code used for amounts in this run, overriding the saved selection." env:"SPENDLOG_COUNTRY"`
	LogLevel  string `help:"Log level (${enum})." default:"warn" enum:"trace,debug,info,warn,error,disabled" env:"SPENDLOG_LOG_LEVEL"`
	Telemetry bool   `help:"Show timing telemetry for operations." env:"SPENDLOG_TELEMETRY"`
}

type Commands struct {
	Globals

	Add     AddCmd     `cmd:"" help:"Add an expense or income entry."`
	Edit    EditCmd    `cmd:"" help:"Change fields of an existing entry."`
	Rm      RmCmd      `cmd:"" help:"Delete an entry."`
	Clear   ClearCmd   `cmd:"" help:"Delete every entry."`
	List    ListCmd    `cmd:"" help:"List entries with statistics, breakdown and tips."`
	Export  ExportCmd  `cmd:"" help:"Export the whole ledger as CSV."`
	Calc    CalcCmd    `cmd:"" help:"Run the calculator."`
	Country CountryCmd `cmd:"" help:"Show or select the country used for amounts."`
	Web     WebCmd     `cmd:"" help:"Start a web server."`
	Doctor  DoctorCmd  `cmd:"" help:"Doctor utilities for debugging a ledger."`
}
