// internal/transform/transformer.go
//
// Document validation and assembly.
//
// Context
// -------
// Transform turns a raw fetched Document into the gateway's internal
// Config, or into the complete set of reasons it cannot.  The pass is total
// and deterministic: the same document under the same environment always
// yields either an identical Config or an identical error set, and a
// document with any defect yields no Config at all.  "Apply what
// validated" is exactly the failure mode this module exists to prevent.
//
// Workflow / Structure
// --------------------
// Four phases, all feeding one accumulated error list:
//
//  1. Required-field validation of every enabled record (validator tags on
//     the remote record structs; unknown wire fields were already ignored
//     at decode time).
//  2. Secret resolution of every embedded reference, re-run each cycle so
//     rotated environment variables are picked up on the next poll.
//  3. Referential integrity: model→provider and pipeline→model edges.
//  4. Assembly into maps, rejecting duplicate ids within a kind.
//
// Records with `enabled: false` are dropped before phase 1; a reference to
// a disabled record is therefore dangling.
package transform

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"

	"github.com/yanizio/confsync/internal/gateway"
	"github.com/yanizio/confsync/internal/remote"
	"github.com/yanizio/confsync/internal/secret"
)

//
// validator instance (package-level singleton)
//

var v = newValidator()

// newValidator reports field names by json tag so errors match the wire
// schema the operator is editing.
func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return val
}

//
// public API
//

// Transform validates doc, resolves its secret references through res, and
// assembles the internal configuration.  On any defect it returns a nil
// Config and the full accumulated error set.
func Transform(ctx context.Context, doc *remote.Document, res *secret.Resolver) (*gateway.Config, error) {
	var errs *multierror.Error

	providers := enabledProviders(doc)
	models := enabledModels(doc)
	pipelines := enabledPipelines(doc)

	// Id sets for referential checks, built from every enabled record that
	// carries an id, so one bad field on a provider does not cascade into
	// spurious dangling-reference noise for its models.
	providerIDs := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		if p.ID != "" {
			providerIDs[p.ID] = struct{}{}
		}
	}
	modelIDs := make(map[string]struct{}, len(models))
	for _, m := range models {
		if m.ID != "" {
			modelIDs[m.ID] = struct{}{}
		}
	}

	cfg := &gateway.Config{
		Providers: make(map[string]gateway.Provider, len(providers)),
		Models:    make(map[string]gateway.Model, len(models)),
		Pipelines: make([]gateway.Pipeline, 0, len(pipelines)),
	}

	//
	// Providers: fields, secret, duplicate, assemble.
	//
	seenProviders := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		ok := true
		for _, fe := range fieldErrors(p) {
			errs = multierror.Append(errs, &MissingFieldError{Kind: remote.KindProvider, ID: p.ID, Field: fe})
			ok = false
		}

		var key gateway.Secret
		if p.APIKey != nil {
			val, rerr := res.Resolve(ctx, p.APIKey)
			if rerr != nil {
				errs = multierror.Append(errs, &SecretResolutionError{
					Kind: remote.KindProvider, ID: p.ID, Field: "api_key", Err: rerr,
				})
				ok = false
			}
			key = gateway.Secret(val)
		}

		if p.ID != "" {
			if _, dup := seenProviders[p.ID]; dup {
				errs = multierror.Append(errs, &DuplicateIDError{Kind: remote.KindProvider, ID: p.ID})
				continue
			}
			seenProviders[p.ID] = struct{}{}
		}
		if !ok {
			continue
		}
		cfg.Providers[p.ID] = gateway.Provider{
			ID:     p.ID,
			Name:   p.Name,
			Type:   p.Type,
			APIKey: key,
			Params: p.Params,
		}
	}

	//
	// Models: fields, reference, duplicate, assemble.
	//
	seenModels := make(map[string]struct{}, len(models))
	for _, m := range models {
		ok := true
		for _, fe := range fieldErrors(m) {
			errs = multierror.Append(errs, &MissingFieldError{Kind: remote.KindModel, ID: m.ID, Field: fe})
			ok = false
		}

		if m.Provider != "" {
			if _, found := providerIDs[m.Provider]; !found {
				errs = multierror.Append(errs, &DanglingReferenceError{
					From: fmt.Sprintf("model %q", m.ID),
					To:   fmt.Sprintf("provider %q", m.Provider),
				})
				ok = false
			}
		}

		if m.ID != "" {
			if _, dup := seenModels[m.ID]; dup {
				errs = multierror.Append(errs, &DuplicateIDError{Kind: remote.KindModel, ID: m.ID})
				continue
			}
			seenModels[m.ID] = struct{}{}
		}
		if !ok {
			continue
		}
		cfg.Models[m.ID] = gateway.Model{
			ID:       m.ID,
			Name:     m.Name,
			Type:     m.Type,
			Provider: m.Provider,
			Params:   m.Params,
		}
	}

	//
	// Pipelines: fields, references, duplicate, assemble in input order.
	//
	seenPipelines := make(map[string]struct{}, len(pipelines))
	for _, pl := range pipelines {
		ok := true
		for _, fe := range fieldErrors(pl) {
			errs = multierror.Append(errs, &MissingFieldError{Kind: remote.KindPipeline, ID: pl.ID, Field: fe})
			ok = false
		}

		for _, ref := range pl.Models {
			if _, found := modelIDs[ref]; !found {
				errs = multierror.Append(errs, &DanglingReferenceError{
					From: fmt.Sprintf("pipeline %q", pl.ID),
					To:   fmt.Sprintf("model %q", ref),
				})
				ok = false
			}
		}

		if pl.ID != "" {
			if _, dup := seenPipelines[pl.ID]; dup {
				errs = multierror.Append(errs, &DuplicateIDError{Kind: remote.KindPipeline, ID: pl.ID})
				continue
			}
			seenPipelines[pl.ID] = struct{}{}
		}
		if !ok {
			continue
		}
		cfg.Pipelines = append(cfg.Pipelines, gateway.Pipeline{
			ID:     pl.ID,
			Name:   pl.Name,
			Type:   pl.Type,
			Models: append([]string(nil), pl.Models...),
		})
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

//
// helpers
//

// fieldErrors runs struct validation and returns the wire names of the
// fields that failed, in declaration order.
func fieldErrors(rec any) []string {
	err := v.Struct(rec)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError cannot happen for our record structs;
		// surface the field as unknown rather than panicking.
		return []string{"?"}
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

func enabledProviders(doc *remote.Document) []remote.RawProvider {
	out := make([]remote.RawProvider, 0, len(doc.Providers))
	for _, p := range doc.Providers {
		if remote.On(p.Enabled) {
			out = append(out, p)
		}
	}
	return out
}

func enabledModels(doc *remote.Document) []remote.RawModel {
	out := make([]remote.RawModel, 0, len(doc.Models))
	for _, m := range doc.Models {
		if remote.On(m.Enabled) {
			out = append(out, m)
		}
	}
	return out
}

func enabledPipelines(doc *remote.Document) []remote.RawPipeline {
	out := make([]remote.RawPipeline, 0, len(doc.Pipelines))
	for _, pl := range doc.Pipelines {
		if remote.On(pl.Enabled) {
			out = append(out, pl)
		}
	}
	return out
}
