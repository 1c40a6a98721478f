package fifu

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/unixpickle/essentials"
	"github.com/unixpickle/wordvecs/storage"
	"github.com/unixpickle/wordvecs/vocab"
)

// Write encodes embeddings in the finalfusion format.
//
// Quantized storage is written as a quantized chunk; any
// other storage is written as a dense array.
func Write(w io.Writer, e *Embeddings) (err error) {
	defer essentials.AddCtxTo("write finalfusion embeddings", &err)

	var metadata []byte
	if e.Metadata != nil {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(e.Metadata); err != nil {
			return essentials.AddCtx("encode metadata", err)
		}
		metadata = buf.Bytes()
	}

	vocabID, err := vocabChunkID(e.Vocab)
	if err != nil {
		return err
	}
	storageID := ChunkNdArray
	if _, ok := e.Storage.(*storage.Quantized); ok {
		storageID = ChunkQuantizedArray
	}

	var ids []ChunkID
	if metadata != nil {
		ids = append(ids, ChunkMetadata)
	}
	ids = append(ids, vocabID, storageID)
	if e.Norms != nil {
		ids = append(ids, ChunkNdNorms)
	}

	out := &writer{w: w}
	out.raw([]byte(Magic))
	out.u32(Version)
	out.u32(uint32(len(ids)))
	for _, id := range ids {
		out.u32(uint32(id))
	}

	if metadata != nil {
		out.u32(uint32(ChunkMetadata))
		out.u64(uint64(len(metadata)))
		out.raw(metadata)
	}
	writeVocab(out, e.Vocab)
	if q, ok := e.Storage.(*storage.Quantized); ok {
		writeQuantized(out, q)
	} else {
		writeNdArray(out, e.Storage)
	}
	if e.Norms != nil {
		writeNorms(out, e.Norms)
	}
	return out.err
}

func vocabChunkID(v vocab.Vocab) (ChunkID, error) {
	switch v := v.(type) {
	case *vocab.Simple:
		return ChunkSimpleVocab, nil
	case *vocab.Floret:
		return ChunkFloretSubwordVocab, nil
	case *vocab.Subword:
		switch v.Indexer().(type) {
		case vocab.HashIndexer:
			return ChunkBucketSubwordVocab, nil
		case vocab.FastTextIndexer:
			return ChunkFastTextSubwordVocab, nil
		case *vocab.ExplicitIndexer:
			return ChunkExplicitSubwordVocab, nil
		}
	}
	return 0, fmt.Errorf("unsupported vocabulary type: %T", v)
}

func writeVocab(w *writer, v vocab.Vocab) {
	words := v.Words()
	switch v := v.(type) {
	case *vocab.Simple:
		w.u32(uint32(ChunkSimpleVocab))
		w.u64(uint64(8 + strsSize(words)))
		w.u64(uint64(len(words)))
		writeStrs(w, words)
	case *vocab.Floret:
		p := v.Params()
		w.u32(uint32(ChunkFloretSubwordVocab))
		w.u64(uint64(8 + 4*4 + strsSize([]string{p.BOW, p.EOW})))
		w.u64(uint64(p.Buckets))
		w.u32(uint32(p.MinN))
		w.u32(uint32(p.MaxN))
		w.u32(uint32(p.NumHash))
		w.u32(p.HashSeed)
		w.str(p.BOW)
		w.str(p.EOW)
	case *vocab.Subword:
		switch indexer := v.Indexer().(type) {
		case vocab.HashIndexer:
			writeHashedVocab(w, ChunkBucketSubwordVocab, v, uint32(indexer.BucketsExp))
		case vocab.FastTextIndexer:
			writeHashedVocab(w, ChunkFastTextSubwordVocab, v, uint32(indexer.NumBuckets))
		case *vocab.ExplicitIndexer:
			ngrams, indices := indexer.NGrams()
			w.u32(uint32(ChunkExplicitSubwordVocab))
			w.u64(uint64(8 + 8 + 4 + 4 + strsSize(words) + strsSize(ngrams) + 8*int64(len(ngrams))))
			w.u64(uint64(len(words)))
			w.u64(uint64(len(ngrams)))
			w.u32(uint32(v.MinN()))
			w.u32(uint32(v.MaxN()))
			writeStrs(w, words)
			for i, ngram := range ngrams {
				w.str(ngram)
				w.u64(uint64(indices[i]))
			}
		}
	default:
		w.err = errors.New("unsupported vocabulary")
	}
}

func writeHashedVocab(w *writer, id ChunkID, v *vocab.Subword, buckets uint32) {
	words := v.Words()
	w.u32(uint32(id))
	w.u64(uint64(8 + 4*3 + strsSize(words)))
	w.u64(uint64(len(words)))
	w.u32(uint32(v.MinN()))
	w.u32(uint32(v.MaxN()))
	w.u32(buckets)
	writeStrs(w, words)
}

func writeStrs(w *writer, strs []string) {
	for _, s := range strs {
		w.str(s)
	}
}

func writeNdArray(w *writer, s storage.Storage) {
	rows, cols := s.Shape()
	w.u32(uint32(ChunkNdArray))

	// The data starts after the chunk length, the shape and
	// the element type.
	pad := padding(w.pos + 8 + 8 + 4 + 4)
	w.u64(uint64(8 + 4 + 4 + pad + int64(rows)*int64(cols)*4))
	w.u64(uint64(rows))
	w.u32(uint32(cols))
	w.u32(typeF32)
	w.zeros(pad)
	for i := 0; i < rows; i++ {
		w.f32s(s.Embedding(i))
	}
}

func writeQuantized(w *writer, q *storage.Quantized) {
	rows, cols := q.Shape()
	numSub := len(q.Quantizers)
	w.u32(uint32(ChunkQuantizedArray))

	headerSize := int64(4*3 + 4 + 4 + 8 + 4 + 4)
	pad := padding(w.pos + 8 + headerSize)
	dataSize := int64(len(q.Projection)+numSub*q.NumCentroids*(cols/numSub)+len(q.Norms))*4 +
		int64(len(q.Codes))
	w.u64(uint64(headerSize + pad + dataSize))
	w.u32(boolU32(q.Projection != nil))
	w.u32(boolU32(q.Norms != nil))
	w.u32(uint32(numSub))
	w.u32(uint32(cols))
	w.u32(uint32(q.NumCentroids))
	w.u64(uint64(rows))
	w.u32(typeF32)
	w.u32(typeU8)
	w.zeros(pad)
	if q.Projection != nil {
		w.f32s(q.Projection)
	}
	for _, table := range q.Quantizers {
		w.f32s(table)
	}
	if q.Norms != nil {
		w.f32s(q.Norms)
	}
	w.raw(q.Codes)
}

func writeNorms(w *writer, norms []float32) {
	w.u32(uint32(ChunkNdNorms))
	pad := padding(w.pos + 8 + 8 + 4)
	w.u64(uint64(8 + 4 + pad + int64(len(norms))*4))
	w.u64(uint64(len(norms)))
	w.u32(typeF32)
	w.zeros(pad)
	w.f32s(norms)
}

func boolU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
