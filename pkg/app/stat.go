package app

import "os"

// statFunc is the stat call HasVersion uses to probe the ready directory.
var statFunc = os.Stat
