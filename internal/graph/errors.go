// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package graph

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidName        = errors.New("invalid name")
	ErrNameTaken          = errors.New("name already taken")
	ErrDetached           = errors.New("entity is no longer part of a graph")
	ErrForeignNode        = errors.New("node belongs to another graph")
	ErrForeignPin         = errors.New("pin belongs to another node or graph")
	ErrInvalidBefore      = errors.New("before pin must be a root pin of the same node")
	ErrNotRootPin         = errors.New("pin is not a root pin")
	ErrSubPin             = errors.New("operation not allowed on a sub-pin")
	ErrNotValuePin        = errors.New("pin does not have value storage")
	ErrNotResource        = errors.New("pin does not have resource storage")
	ErrUnknownType        = errors.New("unknown data type")
	ErrUnknownNodeType    = errors.New("unknown node type")
	ErrPinLinked          = errors.New("pin still has links")
	ErrNodeLinked         = errors.New("node still has links")
	ErrPinBound           = errors.New("pin exposes a bound value slot")
	ErrDirection          = errors.New("link needs one output and one input pin")
	ErrSelfLink           = errors.New("cannot link a node to itself")
	ErrLinkExists         = errors.New("link already exists")
	ErrInputAlreadyLinked = errors.New("input pin is already linked")
	ErrIncompatibleTypes  = errors.New("incompatible pin types")
	ErrCycle              = errors.New("link would create a cycle")
	ErrNoSnapshotter      = errors.New("collection has no snapshotter")
)
