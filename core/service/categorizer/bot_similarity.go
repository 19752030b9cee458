package categorizer

// =============================================================================
// Sequence Similarity (Ratcliff/Obershelp)
// =============================================================================

// Ratio computes the Ratcliff/Obershelp similarity ratio between two
// strings: 2*M/T where M is the total length of the matching blocks and
// T the combined length of both strings. Matching blocks are found by
// repeatedly taking the longest common contiguous substring and recursing
// into the unmatched left and right remainders. Ties between equally long
// matches prefer the earliest position in the first string.
//
// The block selection and scoring reproduce the classic difflib
// SequenceMatcher (without its junk heuristic) so that threshold-boundary
// decisions are bit-for-bit stable. Two empty strings yield 1.0; callers
// that want 0.0 for empty inputs must guard beforehand.
func Ratio(a, b string) float64 {
	la, lb := len(a), len(b)
	if la+lb == 0 {
		return 1.0
	}

	// Positions of every byte value in b, ascending. Normalized inputs are
	// ASCII so byte indexing matches character indexing.
	b2j := make(map[byte][]int)
	for j := 0; j < lb; j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	matched := 0
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, la, 0, lb}}

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := findLongestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if size == 0 {
			continue
		}
		matched += size
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+size < s.ahi && j+size < s.bhi {
			queue = append(queue, span{i + size, s.ahi, j + size, s.bhi})
		}
	}

	return 2.0 * float64(matched) / float64(la+lb)
}

// findLongestMatch locates the longest matching block of a[alo:ahi] in
// b[blo:bhi]. Among equally long matches the one starting earliest in a
// wins, then earliest in b (strict greater-than while scanning ascending).
func findLongestMatch(a string, b2j map[byte][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] holds the length of the longest match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int, len(j2len)+1)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > bestsize {
				besti, bestj, bestsize = i-k+1, j-k+1, k
			}
		}
		j2len = newj2len
	}

	return besti, bestj, bestsize
}
