package core

import "github.com/jangala-dev/i2ccore/errcode"

// ControllerOps is the set of operations a concrete controller kind
// supplies to the ResourceManager: everything that differs between a real
// hardware master, a simulator and a bit-banged bus. The ResourceManager
// itself owns the queue, the dispatch state machine and the critical
// section. Apart from ValidateTransaction, which sees each transaction as
// it is posted, ControllerOps only ever sees the transaction currently at
// the head of that queue.
type ControllerOps interface {
	Init(sda, scl string) errcode.Code
	ValidateTransaction(t *Transaction) errcode.Code
	StartTransaction(t *Transaction) errcode.Code
	StartSegment(t *Transaction) errcode.Code
	PowerUp() errcode.Code
	PowerDown() errcode.Code
}
