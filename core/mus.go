// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"math"
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types stored in BadgerDB.
// Timestamps are encoded as Unix microseconds.
var (
	IDMUS       = idSer{}
	ConceptMUS  = conceptSer{}
	FragmentMUS = fragmentSer{}
)

var (
	_ mus.Serializer[ID]       = IDMUS
	_ mus.Serializer[Concept]  = ConceptMUS
	_ mus.Serializer[Fragment] = FragmentMUS
)

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

type conceptSer struct{}

func (conceptSer) Marshal(c Concept, bs []byte) (n int) {
	n = ord.String.Marshal(c.Name, bs)
	n += varint.Int.Marshal(int(c.Category), bs[n:])
	n += varint.Uint64.Marshal(math.Float64bits(c.Confidence), bs[n:])
	n += marshalStrings(c.Related, bs[n:])
	return n
}

func (conceptSer) Unmarshal(bs []byte) (c Concept, n int, err error) {
	var n1 int
	c.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var category int
	category, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Category = ConceptCategory(category)
	var bits uint64
	bits, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Confidence = math.Float64frombits(bits)
	c.Related, n1, err = unmarshalStrings(bs[n:])
	n += n1
	return
}

func (conceptSer) Size(c Concept) (size int) {
	size = ord.String.Size(c.Name)
	size += varint.Int.Size(int(c.Category))
	size += varint.Uint64.Size(math.Float64bits(c.Confidence))
	size += sizeStrings(c.Related)
	return size
}

func (s conceptSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type fragmentSer struct{}

func (fragmentSer) Marshal(f Fragment, bs []byte) (n int) {
	n = IDMUS.Marshal(f.Id, bs)
	n += ord.String.Marshal(f.Title, bs[n:])
	n += ord.String.Marshal(f.Text, bs[n:])
	n += ord.String.Marshal(f.Note, bs[n:])
	n += marshalStrings(f.Tags, bs[n:])
	n += marshalStrings(f.Topics, bs[n:])
	n += varint.PositiveInt.Marshal(len(f.Concepts), bs[n:])
	for _, c := range f.Concepts {
		n += ConceptMUS.Marshal(c, bs[n:])
	}
	n += ord.String.Marshal(f.CollectionId, bs[n:])
	n += ord.String.Marshal(f.Color, bs[n:])
	n += marshalTime(f.CreatedAt, bs[n:])
	n += marshalTime(f.UpdatedAt, bs[n:])
	n += varint.Int.Marshal(f.ReferenceCount, bs[n:])
	n += varint.PositiveInt.Marshal(len(f.RelatedIds), bs[n:])
	for _, id := range f.RelatedIds {
		n += IDMUS.Marshal(id, bs[n:])
	}
	return n
}

func (fragmentSer) Unmarshal(bs []byte) (f Fragment, n int, err error) {
	var n1 int
	f.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if f.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.Note, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.Tags, n1, err = unmarshalStrings(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.Topics, n1, err = unmarshalStrings(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	var count int
	if count, n1, err = varint.PositiveInt.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if count > 0 {
		f.Concepts = make([]Concept, count)
		for i := 0; i < count; i++ {
			if f.Concepts[i], n1, err = ConceptMUS.Unmarshal(bs[n:]); err != nil {
				return f, n + n1, err
			}
			n += n1
		}
	}
	if f.CollectionId, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.Color, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.CreatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.UpdatedAt, n1, err = unmarshalTime(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if f.ReferenceCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if count, n1, err = varint.PositiveInt.Unmarshal(bs[n:]); err != nil {
		return f, n + n1, err
	}
	n += n1
	if count > 0 {
		f.RelatedIds = make([]ID, count)
		for i := 0; i < count; i++ {
			if f.RelatedIds[i], n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
				return f, n + n1, err
			}
			n += n1
		}
	}
	return f, n, nil
}

func (fragmentSer) Size(f Fragment) (size int) {
	size = IDMUS.Size(f.Id)
	size += ord.String.Size(f.Title)
	size += ord.String.Size(f.Text)
	size += ord.String.Size(f.Note)
	size += sizeStrings(f.Tags)
	size += sizeStrings(f.Topics)
	size += varint.PositiveInt.Size(len(f.Concepts))
	for _, c := range f.Concepts {
		size += ConceptMUS.Size(c)
	}
	size += ord.String.Size(f.CollectionId)
	size += ord.String.Size(f.Color)
	size += sizeTime(f.CreatedAt)
	size += sizeTime(f.UpdatedAt)
	size += varint.Int.Size(f.ReferenceCount)
	size += varint.PositiveInt.Size(len(f.RelatedIds))
	for _, id := range f.RelatedIds {
		size += IDMUS.Size(id)
	}
	return size
}

func (s fragmentSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// Length-prefixed string slices.

func marshalStrings(values []string, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(values), bs)
	for _, v := range values {
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

func unmarshalStrings(bs []byte) (values []string, n int, err error) {
	var count, n1 int
	count, n, err = varint.PositiveInt.Unmarshal(bs)
	if err != nil || count == 0 {
		return nil, n, err
	}
	values = make([]string, count)
	for i := 0; i < count; i++ {
		if values[i], n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return nil, n + n1, err
		}
		n += n1
	}
	return values, n, nil
}

func sizeStrings(values []string) (size int) {
	size = varint.PositiveInt.Size(len(values))
	for _, v := range values {
		size += ord.String.Size(v)
	}
	return size
}

// Timestamps as Unix microseconds. The zero time is encoded as a zero
// microsecond value so it round-trips to a zero time.

func marshalTime(t time.Time, bs []byte) int {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Marshal(micros, bs)
}

func unmarshalTime(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil || micros == 0 {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func sizeTime(t time.Time) int {
	var micros int64
	if !t.IsZero() {
		micros = t.UnixMicro()
	}
	return varint.Int64.Size(micros)
}
