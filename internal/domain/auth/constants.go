package auth

// Role hierarchy levels. Approval routing and visibility scoping key off
// these, so the numeric ordering is load-bearing.
const (
	LevelFunctionary  = 1
	LevelSupervisor   = 2
	LevelSubDirection = 3
	LevelDirection    = 4
)

var levelNames = map[int]string{
	LevelFunctionary:  "Functionary",
	LevelSupervisor:   "Supervisor",
	LevelSubDirection: "Sub-direction",
	LevelDirection:    "Direction",
}

func LevelName(level int) string {
	if name, ok := levelNames[level]; ok {
		return name
	}
	return "Unknown"
}

func ValidLevel(level int) bool {
	return level >= LevelFunctionary && level <= LevelDirection
}
