package consts

const (
	ArticleLikeKey      = "article:like:"
	ArticleCommentKey   = "article:comment:"
	ArticleViewKey      = "article:view:"
	ArticleDirtyKey     = "article:dirty"
	ArticleMetrics7Key  = "article:metrics:7days:"
	ArticleMetrics30Key = "article:metrics:30days:"
)
