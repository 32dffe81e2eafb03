package game

import "fmt"

// ChunkSet packs one small unsigned value per site into 64-bit words. The
// chunk size must divide 64 so that no value straddles a word boundary,
// which lets a single masked word comparison test one site.
type ChunkSet struct {
	chunkSize uint
	numSites  int
	words     []uint64
}

func NewChunkSet(chunkSize uint, numSites int) *ChunkSet {
	if chunkSize == 0 || 64%chunkSize != 0 {
		panic(fmt.Sprintf("chunk size %d does not divide 64", chunkSize))
	}
	perWord := 64 / chunkSize
	numWords := (uint(numSites) + perWord - 1) / perWord
	return &ChunkSet{
		chunkSize: chunkSize,
		numSites:  numSites,
		words:     make([]uint64, numWords),
	}
}

func (c *ChunkSet) ChunkSize() uint { return c.chunkSize }

func (c *ChunkSet) NumSites() int { return c.numSites }

func (c *ChunkSet) valueMask() uint64 {
	if c.chunkSize == 64 {
		return ^uint64(0)
	}
	return (uint64(1) << c.chunkSize) - 1
}

func (c *ChunkSet) offsets(site int) (word int, shift uint) {
	bit := uint(site) * c.chunkSize
	return int(bit / 64), bit % 64
}

// Get returns the value stored at site.
func (c *ChunkSet) Get(site int) uint64 {
	word, shift := c.offsets(site)
	return (c.words[word] >> shift) & c.valueMask()
}

// Set stores value at site. Bits of value beyond the chunk size are dropped.
func (c *ChunkSet) Set(site int, value uint64) {
	word, shift := c.offsets(site)
	c.words[word] &^= c.valueMask() << shift
	c.words[word] |= (value & c.valueMask()) << shift
}

// MatchesValue masks the word holding site and compares the site's chunk to
// value in a single word operation.
func (c *ChunkSet) MatchesValue(site int, value uint64) bool {
	word, shift := c.offsets(site)
	mask := c.valueMask() << shift
	return c.words[word]&mask == (value&c.valueMask())<<shift
}

// Word returns the i-th backing word.
func (c *ChunkSet) Word(i int) uint64 { return c.words[i] }

func (c *ChunkSet) NumWords() int { return len(c.words) }

func (c *ChunkSet) Clone() *ChunkSet {
	words := make([]uint64, len(c.words))
	copy(words, c.words)
	return &ChunkSet{chunkSize: c.chunkSize, numSites: c.numSites, words: words}
}

// BoardVectors holds the packed per-site state vectors the feature engine
// tests against: whether a site is empty, who occupies it, and what piece
// occupies it. A site is empty exactly when its Who and What values are 0.
type BoardVectors struct {
	Empty *ChunkSet
	Who   *ChunkSet
	What  *ChunkSet
}

func NewBoardVectors(numSites int, whoBits, whatBits uint) *BoardVectors {
	return &BoardVectors{
		Empty: NewChunkSet(1, numSites),
		Who:   NewChunkSet(whoBits, numSites),
		What:  NewChunkSet(whatBits, numSites),
	}
}

// SetPiece places piece what for player who at site, keeping the three
// vectors consistent. who and what of 0 clear the site.
func (b *BoardVectors) SetPiece(site int, who, what uint64) {
	b.Who.Set(site, who)
	b.What.Set(site, what)
	if who == 0 && what == 0 {
		b.Empty.Set(site, 1)
	} else {
		b.Empty.Set(site, 0)
	}
}

func (b *BoardVectors) Clone() *BoardVectors {
	return &BoardVectors{
		Empty: b.Empty.Clone(),
		Who:   b.Who.Clone(),
		What:  b.What.Clone(),
	}
}
