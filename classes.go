package ahocorasick

// byteClassBuilder marks the boundaries between byte equivalence classes.
// Every byte that occurs in some pattern ends up in a class of its own, all
// other bytes are grouped into the ranges between them.
type byteClassBuilder []bool

func (b byteClassBuilder) setRange(start, end byte) {
	if start > 0 {
		b[int(start)-1] = true
	}
	b[int(end)] = true
}

func (b byteClassBuilder) build() byteClasses {
	var classes byteClasses
	var class byte
	for i := 0; i < 256; i++ {
		classes.bytes[i] = class
		if i < 255 && b[i] {
			class++
		}
	}
	return classes
}

func newByteClassBuilder() byteClassBuilder {
	return make([]bool, 256)
}

type byteClasses struct {
	bytes [256]byte
}

func singletons() byteClasses {
	var bc byteClasses
	for i := range bc.bytes {
		bc.bytes[i] = byte(i)
	}
	return bc
}

func (b *byteClasses) get(bb byte) byte {
	return b.bytes[bb]
}

func (b *byteClasses) alphabetLen() int {
	return int(b.bytes[255]) + 1
}

func (b *byteClasses) isSingleton() bool {
	return b.alphabetLen() == 256
}

// representatives returns one byte per class, in class order.
func (b *byteClasses) representatives() []byte {
	reps := make([]byte, 0, b.alphabetLen())
	for i := 0; i < 256; i++ {
		if i == 0 || b.bytes[i] != b.bytes[i-1] {
			reps = append(reps, byte(i))
		}
	}
	return reps
}
