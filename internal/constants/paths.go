package constants

// Default tuning knobs. These are the fallback values internal/config
// applies when a layer (flag, env, config file) leaves them unset.
const (
	// DefaultMaxWorkers is used when --workers is unset and logical CPU
	// detection fails.
	DefaultMaxWorkers = 4

	// DefaultTailLines bounds the in-memory ring buffer kept per step for
	// stdout/stderr and debug output. Full output always persists on disk;
	// this only bounds what the View can scroll through live.
	DefaultTailLines = 2000

	// DefaultKillGraceSeconds is how long, in seconds, the engine waits after sending the soft
	// terminate signal to a step's process group before escalating to the
	// hard kill signal.
	DefaultKillGraceSeconds = 2

	// DefaultTickHz is the Controller's redraw tick cadence.
	DefaultTickHz = 15

	// LogsDirName is the directory (relative to the process cwd) holding
	// per-step stdout/stderr log files.
	LogsDirName = ".logs"

	// StepLogStdoutSuffix and StepLogStderrSuffix name the two log files
	// written per step, e.g. "step-00.stdout.log".
	StepLogStdoutSuffix = "stdout.log"
	StepLogStderrSuffix = "stderr.log"

	// StateFileVersion is the "version" field written to the persisted
	// state JSON document.
	StateFileVersion = 1
)
