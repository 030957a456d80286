package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init configures the snowflake node used by New. Only the first call has an effect.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns a time-ordered int64 identifier. If Init was never called the
// generator falls back to node 0.
func New() int64 {
	if node == nil {
		_ = Init(0)
	}
	return node.Generate().Int64()
}
