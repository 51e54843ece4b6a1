package main

import (
	"strconv"
	"strings"

	"github.com/mama165/sdk-go/database"
)

// StorageMapper labels Badger keys for the debug inspector.
// Values are only ever shown by size: message bodies stay ciphertext and
// user records carry password hashes.
func StorageMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	size := strconv.Itoa(len(val)) + " bytes"

	switch prefix, _, _ := strings.Cut(key, ":"); prefix {
	case "msg":
		row.Type = "MESSAGE"
		row.Detail = "encrypted body, " + size
	case "conv":
		row.Type = "CONVERSATION"
		if strings.HasPrefix(key, "conv:pair:") {
			row.Type = "PAIR"
		}
	case "space":
		row.Type = "SPACE"
	case "user":
		row.Type = "USER"
		row.Detail = "record, " + size
	case "seq":
		row.Type = "SEQUENCE"
	}
	return row
}
