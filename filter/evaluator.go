package filter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/s0up4200/amatino/amatino"
)

// EvaluatorOption configures an evaluator
type EvaluatorOption func(*Evaluator)

// WithWorkers sets the number of goroutines used for large inputs
func WithWorkers(workers int) EvaluatorOption {
	return func(e *Evaluator) {
		if workers > 0 {
			e.workers = workers
		}
	}
}

// WithBatchSize sets the input size at which evaluation goes concurrent and
// the minimum chunk size.
func WithBatchSize(size int) EvaluatorOption {
	return func(e *Evaluator) {
		if size > 0 {
			e.batchSize = size
		}
	}
}

// Evaluator applies a Filter to many nodes.
type Evaluator struct {
	workers   int
	batchSize int
}

func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		workers:   runtime.GOMAXPROCS(0),
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Select returns the nodes f matches, in input order. Children are not
// visited; use SelectTree for that.
func (e *Evaluator) Select(ctx context.Context, f Filter, nodes []amatino.TreeNode) ([]amatino.TreeNode, error) {
	if len(nodes) == 0 {
		return []amatino.TreeNode{}, nil
	}
	if len(nodes) < e.batchSize {
		return selectChunk(ctx, f, nodes)
	}

	chunkSize := max(len(nodes)/e.workers, e.batchSize)
	chunks := make([][]amatino.TreeNode, 0, len(nodes)/chunkSize+1)
	for i := 0; i < len(nodes); i += chunkSize {
		chunks = append(chunks, nodes[i:min(i+chunkSize, len(nodes))])
	}

	results := make([][]amatino.TreeNode, len(chunks))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			matches, err := selectChunk(ctx, f, chunk)
			if err != nil {
				return err
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	matches := make([]amatino.TreeNode, 0, total)
	for _, r := range results {
		matches = append(matches, r...)
	}
	return matches, nil
}

// SelectTree flattens tree and selects from every node, parents first.
func (e *Evaluator) SelectTree(ctx context.Context, f Filter, tree amatino.Tree) ([]amatino.TreeNode, error) {
	return e.Select(ctx, f, tree.Flatten())
}

func selectChunk(ctx context.Context, f Filter, nodes []amatino.TreeNode) ([]amatino.TreeNode, error) {
	var matches []amatino.TreeNode
	for _, node := range nodes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := f.Match(node)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, node)
		}
	}
	if matches == nil {
		matches = []amatino.TreeNode{}
	}
	return matches, nil
}
