/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package certchain

import "fmt"

// TrustPath is the ordered list of certificates linking the leaf to the trust anchor.
// Each certificate is signed by the next one; the last one is signed by the anchor,
// which is not part of the path.
type TrustPath struct {
	// Certificates holds the path certificates, leaf first.
	Certificates []Certificate
	// Indices holds the positions of the path certificates in the validated chain.
	Indices []int
}

// Len returns the number of certificates in the path.
func (p *TrustPath) Len() int {
	return len(p.Indices)
}

// PathBuilder builds a trust path from the first certificate of a chain to its last certificate.
type PathBuilder interface {
	BuildPath(chain Chain) (*TrustPath, error)
}

// maxSearchSteps bounds the number of partial paths the builder expands while looking for a
// longer path. Once it is spent the longest path found so far is used.
const maxSearchSteps = 4096

// DepthFirstBuilder is the default PathBuilder. It treats the chain as an unordered pool of
// candidate issuers. Every issuer link is verified once, the shortest path to the anchor is taken
// as a baseline and a bounded depth first search then looks for a longer path, preferring one that
// uses every certificate.
type DepthFirstBuilder struct{}

// NewDepthFirstBuilder creates a new DepthFirstBuilder.
func NewDepthFirstBuilder() *DepthFirstBuilder {
	return &DepthFirstBuilder{}
}

// BuildPath builds a trust path anchored at the last certificate of the chain.
func (b *DepthFirstBuilder) BuildPath(chain Chain) (*TrustPath, error) {
	if len(chain) == 0 {
		return nil, ErrEmptyChain
	}
	for i, cert := range chain {
		if cert == nil {
			return nil, &NoTrustedPathError{Index: i, Reason: fmt.Sprintf("certificate at index %d is nil", i)}
		}
	}

	anchorIndex := len(chain) - 1
	if !chain[anchorIndex].IsSelfSigned() {
		return nil, &NoTrustedPathError{
			Index:  anchorIndex,
			Reason: fmt.Sprintf("trust anchor at index %d is not self-signed", anchorIndex),
		}
	}
	if anchorIndex == 0 {
		return &TrustPath{}, nil
	}

	graph := newIssuerGraph(chain)
	shortest, noPathErr := graph.shortestPath()
	if noPathErr != nil {
		return nil, noPathErr
	}

	search := newPathSearch(graph, shortest)
	if len(search.best) < search.usefulCount {
		path := make([]int, 1, len(chain))
		search.used[0] = true
		search.walk(0, path)
	}
	return newTrustPath(chain, search.best), nil
}

// issuerGraph holds the verified issuer links of a chain. issuers[i] lists, in chain order, the
// certificates that may act as issuer of certificate i.
type issuerGraph struct {
	chain       Chain
	anchorIndex int
	issuers     [][]int
	failures    []string
}

// newIssuerGraph verifies every candidate issuer link once. The leaf is never an issuer and the
// anchor never needs one.
func newIssuerGraph(chain Chain) *issuerGraph {
	anchorIndex := len(chain) - 1
	g := &issuerGraph{
		chain:       chain,
		anchorIndex: anchorIndex,
		issuers:     make([][]int, anchorIndex),
		failures:    make([]string, anchorIndex),
	}

	for i := 0; i < anchorIndex; i++ {
		cert := chain[i]
		for j := 1; j < len(chain); j++ {
			candidate := chain[j]
			if j == i || candidate.Subject() != cert.Issuer() {
				continue
			}
			if err := cert.CheckSignatureFrom(candidate); err != nil {
				g.fail(i, fmt.Sprintf(
					"signature of certificate at index %d could not be verified by certificate at index %d: %v",
					i, j, err))
				continue
			}
			// The anchor is trusted by declaration and exempt from the issuer capability check.
			if j != anchorIndex && !candidate.IsCA() {
				g.fail(i, fmt.Sprintf(
					"certificate at index %d is not permitted to issue certificates (issuer of index %d)", j, i))
				continue
			}
			g.issuers[i] = append(g.issuers[i], j)
		}
	}
	return g
}

// fail records the first linkage failure of a certificate.
func (g *issuerGraph) fail(index int, reason string) {
	if g.failures[index] == "" {
		g.failures[index] = reason
	}
}

// shortestPath walks the graph breadth first from the leaf. When the anchor is not reachable the
// error points at the deepest certificate reached, the first one in breadth first order on ties.
func (g *issuerGraph) shortestPath() ([]int, *NoTrustedPathError) {
	parent := make([]int, len(g.chain))
	depth := make([]int, len(g.chain))
	visited := make([]bool, len(g.chain))
	visited[0] = true
	parent[0] = -1
	deepest := 0

	queue := []int{0}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if depth[current] > depth[deepest] {
			deepest = current
		}
		if current == g.anchorIndex {
			continue
		}
		for _, next := range g.issuers[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			depth[next] = depth[current] + 1
			queue = append(queue, next)
		}
	}

	if !visited[g.anchorIndex] {
		var reason string
		switch {
		case len(g.issuers[deepest]) > 0:
			reason = fmt.Sprintf("issuers of certificate at index %d do not lead to the trust anchor", deepest)
		case g.failures[deepest] != "":
			reason = g.failures[deepest]
		default:
			reason = fmt.Sprintf("no issuer found for certificate at index %d", deepest)
		}
		return nil, &NoTrustedPathError{Index: deepest, Reason: reason}
	}

	var path []int
	for i := parent[g.anchorIndex]; i != -1; i = parent[i] {
		path = append([]int{i}, path...)
	}
	return path, nil
}

// reachesAnchor marks the certificates from which the anchor can be reached.
func (g *issuerGraph) reachesAnchor() []bool {
	subjects := make([][]int, len(g.chain))
	for i, issuers := range g.issuers {
		for _, j := range issuers {
			subjects[j] = append(subjects[j], i)
		}
	}

	reaches := make([]bool, len(g.chain))
	reaches[g.anchorIndex] = true
	queue := []int{g.anchorIndex}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, prev := range subjects[current] {
			if !reaches[prev] {
				reaches[prev] = true
				queue = append(queue, prev)
			}
		}
	}
	return reaches
}

// pathSearch is a branch and bound search for the longest path from the leaf to the anchor over
// the certificates that lie on some such path.
type pathSearch struct {
	graph       *issuerGraph
	useful      []bool
	usefulCount int
	used        []bool
	best        []int
	steps       int
}

func newPathSearch(graph *issuerGraph, baseline []int) *pathSearch {
	s := &pathSearch{
		graph:  graph,
		useful: graph.reachesAnchor(),
		used:   make([]bool, len(graph.chain)),
		best:   baseline,
	}
	s.useful[graph.anchorIndex] = false
	for _, useful := range s.useful {
		if useful {
			s.usefulCount++
		}
	}
	return s
}

// walk extends the path ending at current. It returns true when the search is over, either
// because a path through every useful certificate was found or because the step budget is spent.
func (s *pathSearch) walk(current int, path []int) bool {
	s.steps++
	if s.steps > maxSearchSteps {
		return true
	}
	if len(path)+s.reachableUnused(current) <= len(s.best) {
		return false
	}

	for _, next := range s.graph.issuers[current] {
		if next == s.graph.anchorIndex {
			if len(path) > len(s.best) {
				s.best = append([]int(nil), path...)
				if len(s.best) == s.usefulCount {
					return true
				}
			}
			continue
		}
		if s.used[next] || !s.useful[next] {
			continue
		}
		s.used[next] = true
		if s.walk(next, append(path, next)) {
			return true
		}
		s.used[next] = false
	}
	return false
}

// reachableUnused counts the unused certificates that can still be appended after current.
func (s *pathSearch) reachableUnused(current int) int {
	seen := make([]bool, len(s.graph.chain))
	count := 0
	queue := []int{current}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == s.graph.anchorIndex {
			continue
		}
		for _, next := range s.graph.issuers[node] {
			if seen[next] || s.used[next] || !s.useful[next] {
				continue
			}
			seen[next] = true
			count++
			queue = append(queue, next)
		}
	}
	return count
}

func newTrustPath(chain Chain, indices []int) *TrustPath {
	path := &TrustPath{
		Certificates: make([]Certificate, 0, len(indices)),
		Indices:      indices,
	}
	for _, i := range indices {
		path.Certificates = append(path.Certificates, chain[i])
	}
	return path
}
