package imagevariant

import (
	"bytes"
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eringen/echofield/storage"
)

// Synchronizer derives variants of stored originals. Every failure is
// logged and returned to the caller as data; none of its methods fail the
// surrounding save or delete.
type Synchronizer struct {
	store    storage.Storage
	codec    Codec
	variants []Variant
	quality  int
	log      zerolog.Logger
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithVariants replaces DefaultVariants.
func WithVariants(vs []Variant) Option {
	return func(s *Synchronizer) {
		if len(vs) > 0 {
			s.variants = vs
		}
	}
}

// WithQuality sets the WebP quality (1-100).
func WithQuality(q int) Option {
	return func(s *Synchronizer) {
		if q > 0 && q <= 100 {
			s.quality = q
		}
	}
}

// WithCodec replaces the WebPCodec.
func WithCodec(c Codec) Option {
	return func(s *Synchronizer) { s.codec = c }
}

// WithLogger sets the logger failures are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Synchronizer) { s.log = l }
}

// New returns a Synchronizer storing originals and variants in store.
func New(store storage.Storage, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:    store,
		codec:    WebPCodec{},
		variants: DefaultVariants,
		quality:  DefaultQuality,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Variants returns the configured variants.
func (s *Synchronizer) Variants() []Variant { return s.variants }

// Labels returns the configured labels in order.
func (s *Synchronizer) Labels() []string { return Labels(s.variants) }

// OnSave runs after a record referencing current has been stored; previous
// is the image the record referenced before the save. Variants of a
// replaced or removed image are deleted. New variants are generated only
// when the image changed.
func (s *Synchronizer) OnSave(ctx context.Context, current, previous string) []*Failure {
	var failures []*Failure
	if previous != "" && previous != current {
		failures = append(failures, s.Delete(ctx, previous)...)
	}
	if current == "" || current == previous {
		return failures
	}
	_, genFailures := s.Generate(ctx, current)
	return append(failures, genFailures...)
}

// OnDelete runs after a record referencing image has been deleted.
func (s *Synchronizer) OnDelete(ctx context.Context, image string) []*Failure {
	if image == "" {
		return nil
	}
	return s.Delete(ctx, image)
}

// Generate writes every configured variant of original, overwriting any
// existing one. Each variant is attempted independently; the names that were
// written are returned alongside the failures.
func (s *Synchronizer) Generate(ctx context.Context, original string) ([]string, []*Failure) {
	if original == "" {
		return nil, nil
	}
	rc, err := s.store.Open(ctx, original)
	if err != nil {
		return nil, []*Failure{s.fail(KindOpen, "", original, err)}
	}
	src, err := s.codec.Decode(rc)
	rc.Close()
	if err != nil {
		return nil, []*Failure{s.fail(KindDecode, "", original, err)}
	}

	var (
		generated []string
		failures  []*Failure
	)
	for _, v := range s.variants {
		name := Name(original, v.Label)
		var buf bytes.Buffer
		if err := s.codec.Encode(&buf, s.codec.Resize(src, v.Width), s.quality); err != nil {
			failures = append(failures, s.fail(KindEncode, v.Label, name, err))
			continue
		}
		if err := s.store.Delete(ctx, name); err != nil {
			failures = append(failures, s.fail(KindDelete, v.Label, name, err))
			continue
		}
		if err := s.store.Save(ctx, name, &buf); err != nil {
			failures = append(failures, s.fail(KindWrite, v.Label, name, err))
			continue
		}
		generated = append(generated, name)
	}
	s.log.Debug().Str("original", original).Strs("variants", generated).Msg("generated image variants")
	return generated, failures
}

// Delete removes every configured variant of original. Missing variants are skipped.
func (s *Synchronizer) Delete(ctx context.Context, original string) []*Failure {
	var failures []*Failure
	for _, v := range s.variants {
		name := Name(original, v.Label)
		ok, err := s.store.Exists(ctx, name)
		if err != nil {
			failures = append(failures, s.fail(KindLookup, v.Label, name, err))
			continue
		}
		if !ok {
			continue
		}
		if err := s.store.Delete(ctx, name); err != nil {
			failures = append(failures, s.fail(KindDelete, v.Label, name, err))
		}
	}
	return failures
}

// URLs maps each of labels (all configured labels when empty) to the public
// URL of that variant of original, omitting variants that do not exist.
func (s *Synchronizer) URLs(ctx context.Context, original string, labels ...string) map[string]string {
	urls := make(map[string]string)
	if original == "" {
		return urls
	}
	if len(labels) == 0 {
		labels = s.Labels()
	}
	for _, label := range labels {
		name := Name(original, label)
		ok, err := s.store.Exists(ctx, name)
		if err != nil {
			s.fail(KindLookup, label, name, err)
			continue
		}
		if ok {
			urls[label] = s.store.URL(name)
		}
	}
	return urls
}

// Srcset returns a srcset attribute value listing the existing variants of
// original in configured order, e.g. "/media/a@1x.webp 1x, /media/a@2x.webp 2x".
func (s *Synchronizer) Srcset(ctx context.Context, original string) string {
	urls := s.URLs(ctx, original)
	var parts []string
	for _, label := range s.Labels() {
		if u, ok := urls[label]; ok {
			parts = append(parts, u+" "+label)
		}
	}
	return strings.Join(parts, ", ")
}

// SocialImageURL prefers the 2x variant, then 1x, then the original.
func (s *Synchronizer) SocialImageURL(ctx context.Context, original string) string {
	if original == "" {
		return ""
	}
	urls := s.URLs(ctx, original, "2x", "1x")
	if u := urls["2x"]; u != "" {
		return u
	}
	if u := urls["1x"]; u != "" {
		return u
	}
	return s.store.URL(original)
}

func (s *Synchronizer) fail(kind Kind, label, name string, err error) *Failure {
	f := &Failure{Kind: kind, Label: label, Name: name, Err: err}
	s.log.Error().Err(err).Str("kind", string(kind)).Str("label", label).Str("name", name).Msg("image variant failure")
	return f
}
