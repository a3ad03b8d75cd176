package controller

// Message types delivered to the running Bubble Tea program.
type baselineMsg struct {
	passed       bool
	coveredSites int
}

type progressMsg struct {
	current int
	total   int
	id      uint32
	family  string
	change  string
	path    string
}

type verdictMsg struct {
	id       uint32
	change   string
	status   string
	location string
}

type scoreMsg struct {
	score float64
}
