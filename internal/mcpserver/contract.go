package mcpserver

// PostFormatContract describes the Markdown article format that the loader
// and renderer understand.
const PostFormatContract = `# sciencestop Post Format

Every article is one Markdown file under the content directory.

## Structure

` + "```" + `markdown
---
title: 우주 달력                    # REQUIRED; a file without it fails the load
date: "2025-06-17"                   # OPTIONAL; missing or unparseable sorts last
categories: [space]                  # OPTIONAL; space, brain, life, ai, math
tags: [universe, cosmology]          # OPTIONAL
summary: One line for listings.      # OPTIONAL
thumbnail: /images/cosmic.jpg        # OPTIONAL
---

Body text in GitHub-flavoured Markdown.
` + "```" + `

## Rules

1. **Front matter is mandatory** and must parse. A broken header fails the whole
   load unless the server runs with ` + "`" + `content.skip_invalid` + "`" + `.
2. **Slug** is the path relative to the content root without ` + "`" + `.md` + "`" + `
   (` + "`" + `2025/cosmic-calendar.md` + "`" + ` is ` + "`" + `2025/cosmic-calendar` + "`" + `). Slugs are unique.
3. **Dates** are ` + "`" + `2006-01-02` + "`" + `, RFC 3339, or ` + "`" + `2006-01-02 15:04:05` + "`" + ` (UTC).
   Posts are listed newest first.
4. **A legacy single ` + "`" + `category` + "`" + ` key** is merged into ` + "`" + `categories` + "`" + `.
5. **Line breaks are kept**: a single newline renders as ` + "`" + `<br>` + "`" + `.
6. **Headings** h2 and h3 make up the table of contents. Ids keep Korean text;
   repeated headings get ` + "`" + `-1` + "`" + `, ` + "`" + `-2` + "`" + ` suffixes.
7. **Timestamps** written as ` + "`" + `[MM:SS]` + "`" + ` become seek links into the post's video.
   A list item starting with a timestamp is shown as a chapter marker.
8. **Math** uses ` + "`" + `$inline$` + "`" + ` and ` + "`" + `$$display$$` + "`" + ` and is rendered client-side.
9. **Video** is embedded with a raw YouTube ` + "`" + `<iframe>` + "`" + `. Other iframe hosts, scripts
   and inline event handlers are shown as literal text.

## Example

` + "```" + `markdown
---
title: 우주 달력
date: "2025-06-17"
categories: [space]
tags: [universe]
---

<iframe src="https://www.youtube.com/embed/abc123"></iframe>

## 빅뱅에서 오늘까지

- [00:00] 1월 1일, 빅뱅
- [04:32] 5월, 우리 은하

태양의 질량은 $M_\odot$ 입니다.
` + "```" + `
`
