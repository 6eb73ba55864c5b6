package solver

import (
	"sort"

	"github.com/notargets/gocoax/utils"
)

// RCM returns the reverse Cuthill-McKee ordering of the symmetric sparsity
// pattern of A, perm[new] = old. Each connected component is numbered in
// turn, starting from a pseudo peripheral node.
func RCM(A utils.CSR) (perm []int) {
	var (
		n, _    = A.Dims()
		adj     = make([][]int, n)
		visited = make([]bool, n)
	)
	A.DoNonZero(func(i, j int, v float64) {
		if i != j {
			adj[i] = append(adj[i], j)
		}
	})
	byDegree := func(list []int) {
		sort.SliceStable(list, func(a, b int) bool {
			da, db := len(adj[list[a]]), len(adj[list[b]])
			if da != db {
				return da < db
			}
			return list[a] < list[b]
		})
	}
	for i := range adj {
		byDegree(adj[i])
	}
	starts := make([]int, n)
	for i := range starts {
		starts[i] = i
	}
	byDegree(starts)

	perm = make([]int, 0, n)
	for _, s := range starts {
		if visited[s] {
			continue
		}
		root := pseudoPeripheral(adj, s)
		visited[root] = true
		queue := []int{root}
		for len(queue) != 0 {
			i := queue[0]
			queue = queue[1:]
			perm = append(perm, i)
			for _, j := range adj[i] {
				if !visited[j] {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
	}
	for i, j := 0, len(perm)-1; i < j; i, j = i+1, j-1 {
		perm[i], perm[j] = perm[j], perm[i]
	}
	return
}

// pseudoPeripheral walks to a node of the last level structure of s with the
// smallest degree until the eccentricity stops growing
func pseudoPeripheral(adj [][]int, s int) int {
	root := s
	depth, last := levels(adj, s)
	for {
		next := last[0]
		for _, i := range last {
			if len(adj[i]) < len(adj[next]) {
				next = i
			}
		}
		d, l := levels(adj, next)
		if d <= depth {
			return root
		}
		root, depth, last = next, d, l
	}
}

// levels is a breadth first search from s returning the depth of the level
// structure and the nodes of its last level
func levels(adj [][]int, s int) (depth int, last []int) {
	seen := make([]bool, len(adj))
	seen[s] = true
	level := []int{s}
	for {
		var next []int
		for _, i := range level {
			for _, j := range adj[i] {
				if !seen[j] {
					seen[j] = true
					next = append(next, j)
				}
			}
		}
		if len(next) == 0 {
			return depth, level
		}
		depth++
		level = next
	}
}

// Bandwidth is max |inv[i] - inv[j]| over the non zeros of A, where inv
// maps an old index to its new position. A nil inv keeps the natural order.
func Bandwidth(A utils.CSR, inv []int) (k int) {
	A.DoNonZero(func(i, j int, v float64) {
		if inv != nil {
			i, j = inv[i], inv[j]
		}
		if d := j - i; d > k {
			k = d
		} else if -d > k {
			k = -d
		}
	})
	return
}

func inversePermutation(perm []int) (inv []int) {
	inv = make([]int, len(perm))
	for newIdx, old := range perm {
		inv[old] = newIdx
	}
	return
}
