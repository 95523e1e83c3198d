// Copyright (c) 2024 BVK Chaitanya

/*
Package linelog implements leveled loggers that write to line-capped log
files.

A Registry hands out at most one Sink per log file path. A Sink appends one
line per record and, after every append, trims the file down to its most
recent MaxLines lines so that log files never grow without bound. Loggers are
named facades over one or more sinks; asking a Registry for the logger of the
same file twice returns the same Logger.

# FIRST WRITER WINS

Sink configuration (MaxLines, Level, file mode) is fixed by the first request
for a path. Later requests for the same path get the existing Sink and their
sink options are ignored. The minimum level of a Logger, on the other hand, is
updated by every Registry.Logger call.

# MIRRORS

A Registry keeps a list of mirror writers. Every message accepted by any
Logger of the registry is also written, without the line prefix, to all
mirrors. MirrorStdout adds os.Stdout to the list; creating a sink with
SinkOptions.Mirror set does the same.

# TRUNCATION

Trimming rewrites the file through a temporary file and a rename, so readers
never observe a partially rewritten log. Appends and trims on one Sink are
serialized; concurrent processes writing to the same file are not
coordinated.
*/
package linelog
