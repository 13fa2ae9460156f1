package extractor

import "hackinsight/internal/selector"

// Selector families, most specific current markup first.
var (
	projectName = selector.Family{"h1", "#app-title", ".software-header h1"}

	descriptionContainers = selector.Family{
		"#app-details-left .app-details-left",
		"#app-details-left",
		".software-description",
		".project-description",
		"#app-description",
		"[data-field='description']",
		".user-content",
		".user_content",
		".app-info",
		"article.software-details",
		".software-details",
		".details-content",
		"#gallery-item-description",
	}

	fallbackContainers = selector.Family{"main", "article", ".container", "#content", "body"}

	tagFamilies = selector.Family{
		"#built-with a",
		".software-tags a",
		".tags a",
		"#app-built-with a",
		"[data-field='built_with'] a",
	}

	memberFamilies = selector.Family{
		"#app-team .user-profile",
		".software-team .member",
		".team-members .member",
		"#software-team-members .user-profile",
	}
	memberName    = selector.Family{"h4", ".user-profile-name", ".member-name"}
	memberProfile = selector.Family{"a"}
	memberRole    = selector.Family{".role", ".user-profile-role", ".member-role"}

	awardFamilies = selector.Family{
		".software-winner",
		".winner-badge",
		".award-badge",
		".prize-badge",
		"#app-awards .award",
	}

	projectLinks = selector.Family{
		"a[href*='github.com']",
		"a[href*='gitlab.com']",
		"a[href*='bitbucket.com']",
		"#app-links a",
		".software-links a",
	}

	hackathonName        = selector.Family{"h1", ".header-title", ".challenge-header h1", ".hackathon-title"}
	hackathonDescription = selector.Family{
		".hackathon-description",
		".challenge-description",
		".description",
		".header-description",
	}

	searchName         = selector.Family{"h3", "h2", ".challenge-title", ".hackathon-title", ".title"}
	searchLink         = selector.Family{"a"}
	searchParticipants = selector.Family{".participants", ".submissions"}
	searchPrizes       = selector.Family{".prizes", ".prize-amount"}
	searchDescription  = selector.Family{".description", ".challenge-description"}
	searchStatus       = selector.Family{".status-label", ".challenge-status", ".status"}
)
