// Package generate compiles rule sets and models into declarations.
package generate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bfv/ruletypes/internal/catalog"
	"github.com/bfv/ruletypes/internal/config"
	"github.com/bfv/ruletypes/internal/model"
	"github.com/bfv/ruletypes/internal/rules"
	"github.com/bfv/ruletypes/internal/ruleset"
	"github.com/bfv/ruletypes/internal/schema"
	"github.com/bfv/ruletypes/internal/typescript"
)

// Job kinds.
const (
	KindRequest = "request"
	KindModel   = "model"
)

// Job is one file to turn into a definition.
type Job struct {
	Kind string
	Path string
}

// Generator holds everything a compilation needs. It is safe for
// concurrent use.
type Generator struct {
	parser         *rules.Parser
	compiler       *schema.Compiler
	tables         model.TableSource
	namespace      string
	modelNamespace string
	concurrency    int
}

// New builds a generator from cfg, loading the column catalog if one is
// configured.
func New(cfg *config.Config) (*Generator, error) {
	g := &Generator{
		compiler:       schema.NewCompiler(typescript.Formatter{}),
		namespace:      cfg.Namespace,
		modelNamespace: cfg.ModelNamespace,
		concurrency:    max(cfg.Concurrency, 1),
	}

	opts := []rules.Option{rules.WithClassifier(rules.NewConfigClassifier(cfg.CustomRules))}
	if cfg.Catalog != "" {
		cat, err := catalog.Load(cfg.Catalog, cfg.TablePrefix)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		log.Debug().Str("catalog", cfg.Catalog).Str("prefix", cfg.TablePrefix).Msg("catalog loaded")
		opts = append(opts, rules.WithCatalog(cat))
		g.tables = cat
	}
	g.parser = rules.NewParser(opts...)
	return g, nil
}

// Descriptors parses a rule set document.
func (g *Generator) Descriptors(doc *ruleset.Document) []rules.Descriptor {
	return g.parser.ParseSet(doc.Rules)
}

// Tree parses a rule set document and merges it into a schema tree.
func (g *Generator) Tree(doc *ruleset.Document) (*schema.Tree, error) {
	return schema.BuildSchema(g.Descriptors(doc))
}

// Request compiles a rule set document.
func (g *Generator) Request(doc *ruleset.Document) (typescript.Definition, error) {
	props, err := g.compiler.Compile(g.Descriptors(doc))
	if err != nil {
		return typescript.Definition{}, fmt.Errorf("compiling %s: %w", doc.Name, err)
	}
	ns := doc.Namespace
	if ns == "" {
		ns = g.namespace
	}
	log.Debug().Str("request", doc.Name).Int("properties", len(props)).Msg("request compiled")
	return typescript.Definition{Namespace: ns, Name: doc.Name, Properties: props}, nil
}

// Model renders an entity.
func (g *Generator) Model(e *model.Entity) (typescript.Definition, error) {
	props, err := e.Properties(g.tables)
	if err != nil {
		return typescript.Definition{}, err
	}
	ns := e.Namespace
	if ns == "" {
		ns = g.modelNamespace
	}
	log.Debug().Str("model", e.Name).Int("properties", len(props)).Msg("model rendered")
	return typescript.Definition{Namespace: ns, Name: e.Name, Properties: props}, nil
}

// Run processes jobs concurrently and returns their definitions in job
// order. The first failure cancels the remaining jobs.
func (g *Generator) Run(ctx context.Context, jobs []Job) ([]typescript.Definition, error) {
	defs := make([]typescript.Definition, len(jobs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for i, job := range jobs {
		i, job := i, job
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			def, err := g.run(job)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Path, err)
			}
			defs[i] = def
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return defs, nil
}

func (g *Generator) run(job Job) (typescript.Definition, error) {
	switch job.Kind {
	case KindRequest:
		doc, err := ruleset.Load(job.Path)
		if err != nil {
			return typescript.Definition{}, err
		}
		return g.Request(doc)
	case KindModel:
		e, err := model.Load(job.Path)
		if err != nil {
			return typescript.Definition{}, err
		}
		return g.Model(e)
	default:
		return typescript.Definition{}, fmt.Errorf("unknown job kind %q", job.Kind)
	}
}
