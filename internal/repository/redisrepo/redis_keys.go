package redisrepo

const (
	TRENDING_POSTS_KEY         = "posts:trending"
	TRENDING_POSTS_VERSION_KEY = "posts:trending:version"
)

func TrendingPostsKey() string {
	return TRENDING_POSTS_KEY
}

func TrendingPostsVersionKey() string {
	return TRENDING_POSTS_VERSION_KEY
}
