package idgen

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

// Init creates the snowflake node. Must be called once at startup.
func Init() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		log.Fatalf("Failed to init snowflake node: %v", err)
	}
}

// NewReceiptID builds a receipt identifier of the form
// RCPT-YYYYMMDD-HHMMSS-XXXXXXX. The timestamp keeps receipts readable
// and sortable; the snowflake suffix makes two receipts generated within
// the same second distinct.
func NewReceiptID(t time.Time) string {
	suffix := strings.ToUpper(node.Generate().Base36())
	return fmt.Sprintf("RCPT-%s-%s-%s", t.Format("20060102"), t.Format("150405"), suffix)
}
