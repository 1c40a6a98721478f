package fifu

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
	"golang.org/x/exp/mmap"
)

// Embeddings holds the chunks of a finalfusion file.
type Embeddings struct {
	Vocab   vocab.Vocab
	Storage storage.Storage

	// Metadata is nil if the file has no metadata chunk.
	Metadata map[string]interface{}

	// Norms is nil if the file has no norms chunk.
	Norms []float32
}

// Read reads embeddings from r, loading the whole matrix
// into memory.
func Read(r io.Reader) (*Embeddings, error) {
	return readEmbeddings(&reader{r: r}, nil)
}

// Mmap reads embeddings from the file at path, mapping
// the embedding matrix into memory instead of reading it.
//
// The resulting Storage is a *storage.Mmap which owns the
// mapping; it must be closed when the embeddings are no
// longer used.
// Quantized matrices are always read into memory.
func Mmap(path string) (res *Embeddings, err error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	r := &reader{r: io.NewSectionReader(ra, 0, int64(ra.Len()))}
	res, err = readEmbeddings(r, ra)
	if err != nil {
		ra.Close()
		return nil, err
	}
	if _, ok := res.Storage.(*storage.Mmap); !ok {
		ra.Close()
	}
	return res, nil
}

func readEmbeddings(r *reader, ra *mmap.ReaderAt) (res *Embeddings, err error) {
	defer essentials.AddCtxTo("read finalfusion embeddings", &err)

	ids, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	res = &Embeddings{}
	for _, expected := range ids {
		id, err := r.u32()
		if err != nil {
			return nil, essentials.AddCtx("read chunk identifier", err)
		}
		if ChunkID(id) != expected {
			return nil, fmt.Errorf("expected %s chunk but found %s", expected, ChunkID(id))
		}
		chunkLen, err := r.u64()
		if err != nil {
			return nil, essentials.AddCtx("read chunk length", err)
		}
		if chunkLen > math.MaxInt64/2 {
			return nil, fmt.Errorf("implausible %s chunk length: %d", expected, chunkLen)
		}
		end := r.pos + int64(chunkLen)
		if err := readChunk(r, ra, expected, end, res); err != nil {
			return nil, essentials.AddCtx("read "+expected.String()+" chunk", err)
		}
		if err := r.seekTo(end); err != nil {
			return nil, err
		}
	}

	if res.Vocab == nil {
		return nil, errors.New("missing vocabulary chunk")
	}
	if res.Storage == nil {
		return nil, errors.New("missing storage chunk")
	}
	return res, nil
}

func readHeader(r *reader) ([]ChunkID, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, essentials.AddCtx("read magic", err)
	}
	if string(magic[:]) != Magic {
		return nil, fmt.Errorf("bad magic: %q", magic[:])
	}
	version, err := r.u32()
	if err != nil {
		return nil, essentials.AddCtx("read version", err)
	}
	if version != Version {
		return nil, fmt.Errorf("unsupported version: %d", version)
	}
	n, err := r.u32()
	if err != nil {
		return nil, essentials.AddCtx("read chunk count", err)
	}
	if n > 16 {
		return nil, fmt.Errorf("implausible chunk count: %d", n)
	}
	ids := make([]ChunkID, n)
	for i := range ids {
		id, err := r.u32()
		if err != nil {
			return nil, essentials.AddCtx("read chunk identifiers", err)
		}
		ids[i] = ChunkID(id)
	}
	return ids, nil
}

func readChunk(r *reader, ra *mmap.ReaderAt, id ChunkID, end int64, e *Embeddings) error {
	switch {
	case id.isVocab() && e.Vocab != nil:
		return errors.New("multiple vocabulary chunks")
	case id.isStorage() && e.Storage != nil:
		return errors.New("multiple storage chunks")
	}

	var err error
	switch id {
	case ChunkMetadata:
		e.Metadata, err = readMetadata(r, end)
	case ChunkSimpleVocab:
		e.Vocab, err = readSimpleVocab(r, end)
	case ChunkBucketSubwordVocab, ChunkFastTextSubwordVocab:
		e.Vocab, err = readHashedVocab(r, id, end)
	case ChunkExplicitSubwordVocab:
		e.Vocab, err = readExplicitVocab(r, end)
	case ChunkFloretSubwordVocab:
		e.Vocab, err = readFloretVocab(r, end)
	case ChunkNdArray:
		e.Storage, err = readNdArray(r, ra, end)
	case ChunkQuantizedArray:
		e.Storage, err = readQuantized(r, end)
	case ChunkNdNorms:
		e.Norms, err = readNorms(r, end)
	default:
		err = fmt.Errorf("unsupported chunk: %s", id)
	}
	return err
}

func readMetadata(r *reader, end int64) (map[string]interface{}, error) {
	data, err := r.bytes(int(end-r.pos), end)
	if err != nil {
		return nil, err
	}
	res := map[string]interface{}{}
	if err := toml.Unmarshal(data, &res); err != nil {
		return nil, essentials.AddCtx("parse TOML", err)
	}
	return res, nil
}

func readSimpleVocab(r *reader, end int64) (vocab.Vocab, error) {
	n, err := r.length(end, 4)
	if err != nil {
		return nil, err
	}
	words, err := r.strs(n, end)
	if err != nil {
		return nil, err
	}
	return vocab.NewSimple(words)
}

func readHashedVocab(r *reader, id ChunkID, end int64) (vocab.Vocab, error) {
	n, err := r.length(end, 4)
	if err != nil {
		return nil, err
	}
	var params [3]uint32
	for i := range params {
		if params[i], err = r.u32(); err != nil {
			return nil, err
		}
	}
	minN, maxN, buckets := int(params[0]), int(params[1]), params[2]
	words, err := r.strs(n, end)
	if err != nil {
		return nil, err
	}
	if id == ChunkFastTextSubwordVocab {
		return vocab.NewFastTextVocab(words, minN, maxN, int(buckets))
	}
	if buckets > 62 {
		return nil, fmt.Errorf("bucket exponent too large: %d", buckets)
	}
	return vocab.NewBucketVocab(words, minN, maxN, uint(buckets))
}

func readExplicitVocab(r *reader, end int64) (vocab.Vocab, error) {
	numWords, err := r.length(end, 4)
	if err != nil {
		return nil, err
	}
	numNGrams, err := r.length(end, 12)
	if err != nil {
		return nil, err
	}
	minN, err := r.u32()
	if err != nil {
		return nil, err
	}
	maxN, err := r.u32()
	if err != nil {
		return nil, err
	}
	words, err := r.strs(numWords, end)
	if err != nil {
		return nil, err
	}
	ngrams := make([]string, 0, min(numNGrams, maxPrealloc))
	indices := make([]int, 0, min(numNGrams, maxPrealloc))
	for i := 0; i < numNGrams; i++ {
		ngram, err := r.str(end)
		if err != nil {
			return nil, err
		}
		idx, err := r.u64()
		if err != nil {
			return nil, err
		}
		if idx >= uint64(numNGrams) {
			return nil, fmt.Errorf("n-gram index out of range: %d", idx)
		}
		ngrams = append(ngrams, ngram)
		indices = append(indices, int(idx))
	}
	indexer := vocab.NewExplicitIndexer(ngrams, indices)
	return vocab.NewExplicitVocab(words, int(minN), int(maxN), indexer)
}

func readFloretVocab(r *reader, end int64) (vocab.Vocab, error) {
	buckets, err := r.u64()
	if err != nil {
		return nil, err
	}
	var params [4]uint32
	for i := range params {
		if params[i], err = r.u32(); err != nil {
			return nil, err
		}
	}
	bow, err := r.str(end)
	if err != nil {
		return nil, err
	}
	eow, err := r.str(end)
	if err != nil {
		return nil, err
	}
	if params[2] < 1 || params[2] > 4 {
		return nil, fmt.Errorf("invalid hash count: %d", params[2])
	}
	return vocab.NewFloret(vocab.FloretParams{
		Buckets:  int(buckets),
		MinN:     int(params[0]),
		MaxN:     int(params[1]),
		NumHash:  int(params[2]),
		HashSeed: params[3],
		BOW:      bow,
		EOW:      eow,
	}), nil
}

func readNdArray(r *reader, ra *mmap.ReaderAt, end int64) (storage.Storage, error) {
	rows, err := r.u64()
	if err != nil {
		return nil, err
	}
	cols, err := r.u32()
	if err != nil {
		return nil, err
	}
	if err := expectType(r, typeF32); err != nil {
		return nil, err
	}
	if err := r.pad(); err != nil {
		return nil, err
	}
	if cols > 0 && rows > uint64(end-r.pos)/4/uint64(cols) {
		return nil, errTruncated
	}
	if ra != nil {
		return storage.NewMmap(ra, r.pos, int(rows), int(cols))
	}
	data, err := r.f32s(int(rows)*int(cols), end)
	if err != nil {
		return nil, err
	}
	return storage.NewArray(int(rows), int(cols), data), nil
}

func readQuantized(r *reader, end int64) (storage.Storage, error) {
	var flags [3]uint32
	var err error
	for i := range flags {
		if flags[i], err = r.u32(); err != nil {
			return nil, err
		}
	}
	hasProjection, hasNorms, numSub := flags[0] != 0, flags[1] != 0, int(flags[2])
	cols, err := r.u32()
	if err != nil {
		return nil, err
	}
	numCentroids, err := r.u32()
	if err != nil {
		return nil, err
	}
	rows, err := r.u64()
	if err != nil {
		return nil, err
	}
	if err := expectType(r, typeF32); err != nil {
		return nil, err
	}
	if err := expectType(r, typeU8); err != nil {
		return nil, err
	}
	if err := r.pad(); err != nil {
		return nil, err
	}
	if numSub == 0 || cols%uint32(numSub) != 0 || cols > 1<<20 || numCentroids > 256 {
		return nil, errors.New("invalid quantizer shape")
	}

	q := &storage.Quantized{
		NumCentroids: int(numCentroids),
		Cols:         int(cols),
	}
	if hasProjection {
		if q.Projection, err = r.f32s(int(cols)*int(cols), end); err != nil {
			return nil, err
		}
	}
	subDims := int(cols) / numSub
	q.Quantizers = make([][]float32, numSub)
	for i := range q.Quantizers {
		if q.Quantizers[i], err = r.f32s(int(numCentroids)*subDims, end); err != nil {
			return nil, err
		}
	}
	if rows > uint64(end-r.pos) {
		return nil, errTruncated
	}
	if hasNorms {
		if q.Norms, err = r.f32s(int(rows), end); err != nil {
			return nil, err
		}
	}
	if q.Codes, err = r.bytes(int(rows)*numSub, end); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

func readNorms(r *reader, end int64) ([]float32, error) {
	n, err := r.length(end, 4)
	if err != nil {
		return nil, err
	}
	if err := expectType(r, typeF32); err != nil {
		return nil, err
	}
	if err := r.pad(); err != nil {
		return nil, err
	}
	return r.f32s(n, end)
}

func expectType(r *reader, expected uint32) error {
	actual, err := r.u32()
	if err != nil {
		return err
	}
	if actual != expected {
		return fmt.Errorf("unexpected element type %d (expected %d)", actual, expected)
	}
	return nil
}
