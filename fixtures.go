package echofield

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/eringen/echofield/content"
)

const slugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// FixtureOptions controls CreateFixtures.
type FixtureOptions struct {
	Count int    // sample posts, capped at the number of samples
	Bulk  int    // filler posts
	Seed  *int64 // nil picks random slug suffixes
	Now   time.Time
}

type samplePost struct {
	titleEN, titleUK     string
	slugEN, slugUK       string
	contentEN, contentUK string
}

var samplePosts = []samplePost{
	{
		titleEN: "Serving WebP Variants from Go",
		titleUK: "Віддаємо WebP-варіанти з Go",
		slugEN:  "serving-webp-variants-from-go",
		slugUK:  "viddaiemo-webp-varianty-z-go",
		contentEN: "# Serving WebP Variants from Go\n\nEvery featured image gets a `@1x` and a `@2x` WebP file next to the original.\n\n" +
			"- **Smaller pages** on phones\n- **Sharp images** on high density screens\n\nThe `<picture>` element lets the browser pick.",
		contentUK: "# Віддаємо WebP-варіанти з Go\n\nКожне головне зображення отримує WebP-файли `@1x` та `@2x` поруч з оригіналом.\n\n" +
			"- **Легші сторінки** на телефонах\n- **Чіткі зображення** на екранах з високою щільністю\n\nЕлемент `<picture>` дозволяє браузеру обрати.",
	},
	{
		titleEN: "Scheduling Posts with a Publication Date",
		titleUK: "Планування дописів за датою публікації",
		slugEN:  "scheduling-posts-with-a-publication-date",
		slugUK:  "planuvannia-dopysiv-za-datoiu-publikatsii",
		contentEN: "# Scheduling Posts\n\nA post with a publication date in the future stays hidden until that day arrives.\n\n" +
			"```go\nvisible := post.IsPublished(time.Now())\n```\n\nNo cron job is involved.",
		contentUK: "# Планування дописів\n\nДопис із датою публікації в майбутньому залишається прихованим, доки цей день не настане.\n\n" +
			"```go\nvisible := post.IsPublished(time.Now())\n```\n\nЖодного cron-завдання.",
	},
	{
		titleEN: "One Post, Two Languages",
		titleUK: "Один допис, дві мови",
		slugEN:  "one-post-two-languages",
		slugUK:  "odyn-dopys-dvi-movy",
		contentEN: "# One Post, Two Languages\n\nEach language has its own title, body and slug. " +
			"Opening the Ukrainian address in English redirects to the English one.",
		contentUK: "# Один допис, дві мови\n\nКожна мова має власний заголовок, текст і slug. " +
			"Українська адреса, відкрита англійською, перенаправляє на англійську.",
	},
	{
		titleEN: "Markdown In, Sanitized HTML Out",
		titleUK: "Markdown на вході, безпечний HTML на виході",
		slugEN:  "markdown-in-sanitized-html-out",
		slugUK:  "markdown-na-vkhodi-bezpechnyi-html",
		contentEN: "# Markdown In, Sanitized HTML Out\n\nPosts are written in Markdown and rendered on the server.\n\n" +
			"1. **Parse** the Markdown\n2. **Render** HTML\n3. **Sanitize** it before it reaches a page",
		contentUK: "# Markdown на вході, безпечний HTML на виході\n\nДописи пишуться у Markdown і рендеряться на сервері.\n\n" +
			"1. **Розбір** Markdown\n2. **Рендер** HTML\n3. **Очищення** перед показом на сторінці",
	},
	{
		titleEN: "Keeping SQLite Happy Under Load",
		titleUK: "SQLite під навантаженням",
		slugEN:  "keeping-sqlite-happy-under-load",
		slugUK:  "sqlite-pid-navantazhenniam",
		contentEN: "# Keeping SQLite Happy Under Load\n\nWAL mode and a busy timeout go a long way for a read heavy blog.\n\n" +
			"Writes are rare; reads are served from an in-memory cache.",
		contentUK: "# SQLite під навантаженням\n\nРежим WAL і busy timeout добре працюють для блогу, який здебільшого читають.\n\n" +
			"Записи рідкісні; читання обслуговує кеш у пам'яті.",
	},
}

const (
	loremEN = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.\n\n" +
		"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur."
	loremUK = "Лорем іпсум долор сіт амет, консецтетур адіпісцінг еліт. Сед до еіусмод темпор інцідідунт ут лабор ет долор магна алікуа.\n\n" +
		"Дуіс ауте іруре долор ін репрегендеріт ін волуптате веліт ессе ціллум долор еу фугіат нулла паріатур."
)

// CreateFixtures inserts bilingual sample posts published in the past.
// Slugs get a six character suffix that is stable for a given seed.
func CreateFixtures(ctx context.Context, s *Store, opts FixtureOptions) ([]content.Post, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	if opts.Seed != nil {
		rng = rand.New(rand.NewPCG(uint64(*opts.Seed), 0))
	}

	var created []content.Post
	add := func(sp samplePost, maxAgeDays int) error {
		slugEN := randomizeSlug(sp.slugEN, opts.Seed)
		published := opts.Now.Add(-time.Duration(rng.IntN(maxAgeDays+1)) * 24 * time.Hour).UTC()
		p := content.Post{
			Title:       sp.titleEN,
			Slug:        slugEN,
			Content:     sp.contentEN,
			PublishedAt: &published,
		}
		p.SetLocalized(content.English, content.Localized{Title: sp.titleEN, Slug: slugEN, Content: sp.contentEN})
		p.SetLocalized(content.Ukrainian, content.Localized{Title: sp.titleUK, Slug: randomizeSlug(sp.slugUK, opts.Seed), Content: sp.contentUK})
		if err := s.SavePost(ctx, &p); err != nil {
			return fmt.Errorf("fixture %s: %w", slugEN, err)
		}
		created = append(created, p)
		return nil
	}

	for _, sp := range samplePosts[:min(max(opts.Count, 0), len(samplePosts))] {
		if err := add(sp, 30); err != nil {
			return created, err
		}
	}
	for i := 1; i <= opts.Bulk; i++ {
		sp := samplePost{
			titleEN:   fmt.Sprintf("Bulk Post %d", i),
			titleUK:   fmt.Sprintf("Масовий допис %d", i),
			slugEN:    fmt.Sprintf("bulk-post-%d", i),
			slugUK:    fmt.Sprintf("masovyi-dopys-%d", i),
			contentEN: loremEN,
			contentUK: loremUK,
		}
		if err := add(sp, 60); err != nil {
			return created, err
		}
	}
	return created, nil
}

// randomizeSlug appends a random suffix to base. Under a seed the suffix
// depends only on the seed and base.
func randomizeSlug(base string, seed *int64) string {
	var rng *rand.Rand
	if seed == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		h := fnv.New64a()
		_, _ = h.Write([]byte(base))
		rng = rand.New(rand.NewPCG(uint64(*seed), h.Sum64()))
	}
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = slugAlphabet[rng.IntN(len(slugAlphabet))]
	}
	return base + "-" + string(suffix)
}
