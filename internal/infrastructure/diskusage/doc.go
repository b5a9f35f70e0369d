// Package diskusage measures the volume and files of a SQLite record store with gopsutil.
package diskusage
