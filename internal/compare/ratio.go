// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compare

// ratio computes the classic longest-matching-blocks sequence similarity
// of two byte strings: 2*M/T, where M is the total size of the matching
// blocks and T the combined length. Inputs here are normalized
// alphanumeric strings, so byte-wise comparison is exact.
func ratio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	// Index positions of each byte in b for the longest-match scan.
	b2j := make(map[byte][]int, len(b))
	for j := 0; j < len(b); j++ {
		b2j[b[j]] = append(b2j[b[j]], j)
	}

	matches := 0
	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		i, j, size := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if size == 0 {
			continue
		}
		matches += size
		if s.alo < i && s.blo < j {
			queue = append(queue, span{s.alo, i, s.blo, j})
		}
		if i+size < s.ahi && j+size < s.bhi {
			queue = append(queue, span{i + size, s.ahi, j + size, s.bhi})
		}
	}

	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

// longestMatch finds the longest block of a[alo:ahi] that equals a block
// of b[blo:bhi], preferring the earliest block on ties.
func longestMatch(a string, b2j map[byte][]int, alo, ahi, blo, bhi int) (besti, bestj, bestsize int) {
	besti, bestj = alo, blo

	// j2len[j] is the length of the match ending at a[i-1], b[j-1].
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
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
