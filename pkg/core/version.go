package core

var Version string
var Timestamp string
var Commit string
