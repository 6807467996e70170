// Copyright (c) ExtractFlow Authors.
// Licensed under the MIT License.

// Package property converts between the UI-facing property list and the wire
// schema tree.
//
// A Property list is flat and ordered, with one level of nesting for lists
// of objects. The nesting limit is part of the type: a Property holds
// []Field, and a Field has no Fields of its own.
//
// ToWire and FromWire form a round-trip pair: for every valid list P,
// FromWire(ToWire(P)) reproduces P field for field.
package property
