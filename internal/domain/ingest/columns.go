package ingest

import (
	"regexp"
	"strings"
)

// Platforms covered by the raw metrics table, in canonical order.
var Platforms = []string{"facebook", "instagram", "twitter", "tiktok"}

// Metric prefixes that form canonical column names when combined with a
// platform suffix, e.g. fans_facebook, var_engagement_tiktok.
var metricPrefixes = []string{
	"presence", "fans", "posts", "likes", "comments", "shares",
	"engagement", "views", "mentions",
	"var_fans", "var_likes", "var_comments", "var_shares", "var_engagement",
}

// nameSynonyms map alternate identity headers onto the canonical "name".
var nameSynonyms = map[string]bool{
	"page": true, "account": true, "perfil": true, "nome": true,
}

// periodStartSynonyms and periodEndSynonyms detect reporting-period columns,
// passed through verbatim into the metrics export.
var (
	periodStartSynonyms = map[string]bool{
		"period_start": true, "date_from": true, "inicio_periodo": true, "start_date": true,
	}
	periodEndSynonyms = map[string]bool{
		"period_end": true, "date_to": true, "fim_periodo": true, "end_date": true,
	}
)

// columnSynonyms maps known alternate headers onto canonical columns. Built
// once per platform at package init.
var columnSynonyms = buildSynonyms()

func buildSynonyms() map[string]string {
	syn := make(map[string]string)
	for _, plat := range Platforms {
		syn["followers_"+plat] = "fans_" + plat
		syn["seguidores_"+plat] = "fans_" + plat
		syn["posts_count_"+plat] = "posts_" + plat
		syn["qtd_posts_"+plat] = "posts_" + plat
		syn["curtidas_"+plat] = "likes_" + plat
		syn["comentarios_"+plat] = "comments_" + plat
		syn["compartilhamentos_"+plat] = "shares_" + plat
		syn["eng_"+plat] = "engagement_" + plat
		syn["engagement_rate_"+plat] = "engagement_" + plat
		syn["delta_followers_"+plat] = "var_fans_" + plat
		syn["delta_likes_"+plat] = "var_likes_" + plat
		syn["delta_comments_"+plat] = "var_comments_" + plat
		syn["delta_shares_"+plat] = "var_shares_" + plat
		syn["delta_eng_"+plat] = "var_engagement_" + plat
		syn["delta_engagement_"+plat] = "var_engagement_" + plat
		syn["has_"+plat] = "presence_" + plat
		syn[plat+"_present"] = "presence_" + plat
	}
	// Platform-specific share conventions.
	syn["retweets_twitter"] = "shares_twitter"
	syn["video_shares_tiktok"] = "shares_tiktok"
	return syn
}

var canonicalColumn = regexp.MustCompile(
	`^(presence|fans|posts|likes|comments|shares|engagement|views|mentions|var_fans|var_likes|var_comments|var_shares|var_engagement)_(facebook|instagram|twitter|tiktok)$`,
)

// canonicalize maps a raw header onto its canonical column name. The second
// return reports whether the header is a recognized numeric metric column.
func canonicalize(header string) (string, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	if h == "name" || nameSynonyms[h] {
		return "name", false
	}
	if periodStartSynonyms[h] {
		return "period_start", false
	}
	if periodEndSynonyms[h] {
		return "period_end", false
	}
	if dest, ok := columnSynonyms[h]; ok {
		return dest, true
	}
	if canonicalColumn.MatchString(h) {
		return h, true
	}
	return h, false
}

// isPercentColumn reports whether a canonical column carries a rate that
// should be normalized onto the 0-1 fraction scale.
func isPercentColumn(col string) bool {
	return strings.HasPrefix(col, "engagement_") ||
		strings.HasPrefix(col, "var_engagement_") ||
		strings.HasSuffix(col, "_pct") ||
		strings.Contains(col, "rate")
}
