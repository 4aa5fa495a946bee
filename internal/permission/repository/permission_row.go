// Package repository persists permission entries for PostgreSQL and MySQL.
//
// Each operation is a boolean column so that merging a grant is a per-column OR
// performed by the database in a single upsert.
package repository

import (
	permissionDomain "github.com/allisson/credstore/internal/permission/domain"
)

type operationFlags struct {
	read     bool
	write    bool
	delete   bool
	readACL  bool
	writeACL bool
}

func flagsFromOperations(ops []permissionDomain.Operation) operationFlags {
	var flags operationFlags
	for _, op := range ops {
		switch op {
		case permissionDomain.OperationRead:
			flags.read = true
		case permissionDomain.OperationWrite:
			flags.write = true
		case permissionDomain.OperationDelete:
			flags.delete = true
		case permissionDomain.OperationReadACL:
			flags.readACL = true
		case permissionDomain.OperationWriteACL:
			flags.writeACL = true
		}
	}
	return flags
}

func (f operationFlags) operations() []permissionDomain.Operation {
	ops := make([]permissionDomain.Operation, 0, len(permissionDomain.AllOperations))
	if f.read {
		ops = append(ops, permissionDomain.OperationRead)
	}
	if f.write {
		ops = append(ops, permissionDomain.OperationWrite)
	}
	if f.delete {
		ops = append(ops, permissionDomain.OperationDelete)
	}
	if f.readACL {
		ops = append(ops, permissionDomain.OperationReadACL)
	}
	if f.writeACL {
		ops = append(ops, permissionDomain.OperationWriteACL)
	}
	return ops
}
