package cienv

import "strings"

// prNumber filters the "false"/"0" placeholders some providers use for
// non-PR builds.
func prNumber(v string) string {
	if v == "false" || v == "0" {
		return ""
	}
	return v
}

// refBranch strips a refs/heads/ or refs/tags/ prefix down to the bare name.
func refBranch(ref string) string {
	ref = strings.TrimPrefix(ref, "refs/heads/")
	return strings.TrimPrefix(ref, "refs/tags/")
}

// refPullNumber extracts the PR number from a refs/pull/<n>/merge ref.
func refPullNumber(ref string) string {
	if !strings.HasPrefix(ref, "refs/pull/") {
		return ""
	}
	rest := strings.TrimPrefix(ref, "refs/pull/")
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return rest
}

// detectors is the fixed-order fold list. The generic CI_* detector comes
// first so a provider that also exports the generic schema (Codeship does)
// can refine it afterwards.
var detectors = []Detector{
	{
		Name:  "generic",
		Match: func(env Env) bool { return env.Has("CI_NAME") },
		Apply: func(env Env, m *Metadata) {
			set(&m.ServiceName, strings.ToLower(env.Get("CI_NAME")))
			set(&m.ServiceJobID, env.Get("CI_JOB_ID"))
			set(&m.BuildID, env.Get("CI_BUILD_NUMBER"))
			set(&m.BuildURL, env.Get("CI_BUILD_URL"))
			set(&m.Branch, env.Get("CI_BRANCH"))
			set(&m.Commit, env.Get("CI_COMMIT_ID"))
			set(&m.PullRequestID, prNumber(env.Get("CI_PULL_REQUEST")))
		},
	},
	{
		Name:  "travis-ci",
		Match: func(env Env) bool { return env.Has("TRAVIS") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "travis-ci"
			set(&m.ServiceJobID, env.Get("TRAVIS_JOB_ID"))
			set(&m.Slug, env.Get("TRAVIS_REPO_SLUG"))
			set(&m.BuildID, env.Get("TRAVIS_BUILD_ID"))
			set(&m.BuildURL, env.Get("TRAVIS_BUILD_WEB_URL"))
			set(&m.Branch, env.Get("TRAVIS_BRANCH"))
			set(&m.Commit, env.Get("TRAVIS_COMMIT"))
			set(&m.Tag, env.Get("TRAVIS_TAG"))
			set(&m.PullRequestID, prNumber(env.Get("TRAVIS_PULL_REQUEST")))
		},
	},
	{
		Name:  "circleci",
		Match: func(env Env) bool { return env.Has("CIRCLECI") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "circleci"
			set(&m.ServiceJobID, env.First("CIRCLE_WORKFLOW_JOB_ID", "CIRCLE_BUILD_NUM"))
			if env.Has("CIRCLE_PROJECT_USERNAME") && env.Has("CIRCLE_PROJECT_REPONAME") {
				m.Slug = env.Get("CIRCLE_PROJECT_USERNAME") + "/" + env.Get("CIRCLE_PROJECT_REPONAME")
			}
			set(&m.BuildID, env.Get("CIRCLE_BUILD_NUM"))
			set(&m.BuildURL, env.Get("CIRCLE_BUILD_URL"))
			set(&m.Branch, env.Get("CIRCLE_BRANCH"))
			set(&m.Commit, env.Get("CIRCLE_SHA1"))
			set(&m.Tag, env.Get("CIRCLE_TAG"))
			set(&m.PullRequestID, env.Get("CIRCLE_PR_NUMBER"))
		},
	},
	{
		Name:  "github-actions",
		Match: func(env Env) bool { return env.Has("GITHUB_ACTIONS") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "github"
			set(&m.ServiceJobID, env.Get("GITHUB_JOB"))
			set(&m.Slug, env.Get("GITHUB_REPOSITORY"))
			set(&m.BuildID, env.Get("GITHUB_RUN_ID"))
			if env.Has("GITHUB_SERVER_URL") && env.Has("GITHUB_REPOSITORY") && env.Has("GITHUB_RUN_ID") {
				m.BuildURL = env.Get("GITHUB_SERVER_URL") + "/" + env.Get("GITHUB_REPOSITORY") + "/actions/runs/" + env.Get("GITHUB_RUN_ID")
			}
			set(&m.Branch, env.First("GITHUB_HEAD_REF", "GITHUB_REF_NAME"))
			if m.Branch == "" {
				set(&m.Branch, refBranch(env.Get("GITHUB_REF")))
			}
			set(&m.Commit, env.Get("GITHUB_SHA"))
			set(&m.PullRequestID, refPullNumber(env.Get("GITHUB_REF")))
		},
	},
	{
		Name:  "gitlab-ci",
		Match: func(env Env) bool { return env.Has("GITLAB_CI") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "gitlab-ci"
			set(&m.ServiceJobID, env.Get("CI_JOB_ID"))
			set(&m.Slug, env.Get("CI_PROJECT_PATH"))
			set(&m.BuildID, env.Get("CI_PIPELINE_ID"))
			set(&m.BuildURL, env.Get("CI_PIPELINE_URL"))
			set(&m.Branch, env.Get("CI_COMMIT_REF_NAME"))
			set(&m.Commit, env.Get("CI_COMMIT_SHA"))
			set(&m.Tag, env.Get("CI_COMMIT_TAG"))
			set(&m.PullRequestID, env.Get("CI_MERGE_REQUEST_IID"))
		},
	},
	{
		Name:  "jenkins",
		Match: func(env Env) bool { return env.Has("JENKINS_URL") || env.Has("JENKINS_HOME") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "jenkins"
			set(&m.ServiceJobID, env.Get("BUILD_ID"))
			set(&m.BuildID, env.Get("BUILD_NUMBER"))
			set(&m.BuildURL, env.Get("BUILD_URL"))
			set(&m.Branch, env.First("BRANCH_NAME", "GIT_BRANCH"))
			set(&m.Commit, env.Get("GIT_COMMIT"))
			set(&m.PullRequestID, env.First("ghprbPullId", "CHANGE_ID"))
		},
	},
	{
		Name:  "appveyor",
		Match: func(env Env) bool { return env.Has("APPVEYOR") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "appveyor"
			set(&m.ServiceJobID, env.Get("APPVEYOR_JOB_ID"))
			set(&m.Slug, env.Get("APPVEYOR_REPO_NAME"))
			set(&m.BuildID, env.Get("APPVEYOR_BUILD_ID"))
			set(&m.Branch, env.Get("APPVEYOR_REPO_BRANCH"))
			set(&m.Commit, env.Get("APPVEYOR_REPO_COMMIT"))
			set(&m.Tag, env.Get("APPVEYOR_REPO_TAG_NAME"))
			set(&m.PullRequestID, env.Get("APPVEYOR_PULL_REQUEST_NUMBER"))
		},
	},
	{
		Name:  "buildkite",
		Match: func(env Env) bool { return env.Has("BUILDKITE") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "buildkite"
			set(&m.ServiceJobID, env.Get("BUILDKITE_JOB_ID"))
			if env.Has("BUILDKITE_ORGANIZATION_SLUG") && env.Has("BUILDKITE_PIPELINE_SLUG") {
				m.Slug = env.Get("BUILDKITE_ORGANIZATION_SLUG") + "/" + env.Get("BUILDKITE_PIPELINE_SLUG")
			}
			set(&m.BuildID, env.Get("BUILDKITE_BUILD_NUMBER"))
			set(&m.BuildURL, env.Get("BUILDKITE_BUILD_URL"))
			set(&m.Branch, env.Get("BUILDKITE_BRANCH"))
			set(&m.Commit, env.Get("BUILDKITE_COMMIT"))
			set(&m.Tag, env.Get("BUILDKITE_TAG"))
			set(&m.PullRequestID, prNumber(env.Get("BUILDKITE_PULL_REQUEST")))
		},
	},
	{
		Name:  "semaphore",
		Match: func(env Env) bool { return env.Has("SEMAPHORE") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "semaphore"
			set(&m.Slug, env.First("SEMAPHORE_GIT_REPO_SLUG", "SEMAPHORE_REPO_SLUG"))
			set(&m.BuildID, env.First("SEMAPHORE_WORKFLOW_ID", "SEMAPHORE_BUILD_NUMBER"))
			set(&m.Branch, env.First("SEMAPHORE_GIT_BRANCH", "BRANCH_NAME"))
			set(&m.Commit, env.First("SEMAPHORE_GIT_SHA", "REVISION"))
			set(&m.PullRequestID, env.Get("PULL_REQUEST_NUMBER"))
		},
	},
	{
		Name:  "drone",
		Match: func(env Env) bool { return env.Has("DRONE") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "drone"
			set(&m.Slug, env.Get("DRONE_REPO"))
			set(&m.BuildID, env.Get("DRONE_BUILD_NUMBER"))
			set(&m.BuildURL, env.Get("DRONE_BUILD_LINK"))
			set(&m.Branch, env.Get("DRONE_BRANCH"))
			set(&m.Commit, env.Get("DRONE_COMMIT"))
			set(&m.Tag, env.Get("DRONE_TAG"))
			set(&m.PullRequestID, env.Get("DRONE_PULL_REQUEST"))
		},
	},
	{
		Name:  "codeship",
		Match: func(env Env) bool { return env.Get("CI_NAME") == "codeship" },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "codeship"
			set(&m.BuildID, env.Get("CI_BUILD_NUMBER"))
			set(&m.BuildURL, env.Get("CI_BUILD_URL"))
			set(&m.Branch, env.Get("CI_BRANCH"))
			set(&m.Commit, env.Get("CI_COMMIT_ID"))
		},
	},
	{
		Name:  "wercker",
		Match: func(env Env) bool { return env.Has("WERCKER_GIT_BRANCH") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "wercker"
			if env.Has("WERCKER_GIT_OWNER") && env.Has("WERCKER_GIT_REPOSITORY") {
				m.Slug = env.Get("WERCKER_GIT_OWNER") + "/" + env.Get("WERCKER_GIT_REPOSITORY")
			}
			set(&m.BuildID, env.Get("WERCKER_MAIN_PIPELINE_STARTED"))
			set(&m.Branch, env.Get("WERCKER_GIT_BRANCH"))
			set(&m.Commit, env.Get("WERCKER_GIT_COMMIT"))
		},
	},
	{
		Name:  "magnum",
		Match: func(env Env) bool { return env.Get("MAGNUM") == "true" && env.Get("CI") == "true" },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "magnum"
			set(&m.BuildID, env.Get("CI_BUILD_NUMBER"))
			set(&m.Branch, env.Get("CI_BRANCH"))
			set(&m.Commit, env.Get("CI_COMMIT"))
		},
	},
	{
		Name:  "shippable",
		Match: func(env Env) bool { return env.Has("SHIPPABLE") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "shippable"
			set(&m.Slug, env.Get("SHIPPABLE_REPO_SLUG"))
			set(&m.BuildID, env.First("SHIPPABLE_BUILD_ID", "BUILD_NUMBER"))
			set(&m.BuildURL, env.Get("SHIPPABLE_BUILD_URL"))
			set(&m.Branch, env.First("HEAD_BRANCH", "BRANCH"))
			set(&m.Commit, env.Get("COMMIT"))
			set(&m.PullRequestID, prNumber(env.Get("PULL_REQUEST")))
		},
	},
	{
		Name:  "teamcity",
		Match: func(env Env) bool { return env.Has("TEAMCITY_VERSION") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "teamcity"
			set(&m.BuildID, env.Get("BUILD_NUMBER"))
			set(&m.Branch, env.First("TEAMCITY_BUILD_BRANCH", "BRANCH_NAME"))
			set(&m.Commit, env.First("BUILD_VCS_NUMBER", "BUILD_COMMIT"))
		},
	},
	{
		Name:  "azure-pipelines",
		Match: func(env Env) bool { return env.Has("TF_BUILD") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "azure-pipelines"
			set(&m.ServiceJobID, env.Get("SYSTEM_JOBID"))
			set(&m.Slug, env.Get("BUILD_REPOSITORY_NAME"))
			set(&m.BuildID, env.Get("BUILD_BUILDID"))
			if env.Has("SYSTEM_TEAMFOUNDATIONCOLLECTIONURI") && env.Has("SYSTEM_TEAMPROJECT") && env.Has("BUILD_BUILDID") {
				m.BuildURL = env.Get("SYSTEM_TEAMFOUNDATIONCOLLECTIONURI") + env.Get("SYSTEM_TEAMPROJECT") + "/_build/results?buildId=" + env.Get("BUILD_BUILDID")
			}
			set(&m.Branch, env.Get("BUILD_SOURCEBRANCHNAME"))
			set(&m.Commit, env.Get("BUILD_SOURCEVERSION"))
			set(&m.PullRequestID, env.Get("SYSTEM_PULLREQUEST_PULLREQUESTNUMBER"))
		},
	},
	{
		Name:  "bitbucket-pipelines",
		Match: func(env Env) bool { return env.Has("BITBUCKET_BUILD_NUMBER") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "bitbucket-pipelines"
			set(&m.Slug, env.Get("BITBUCKET_REPO_FULL_NAME"))
			set(&m.BuildID, env.Get("BITBUCKET_BUILD_NUMBER"))
			set(&m.Branch, env.Get("BITBUCKET_BRANCH"))
			set(&m.Commit, env.Get("BITBUCKET_COMMIT"))
			set(&m.Tag, env.Get("BITBUCKET_TAG"))
			set(&m.PullRequestID, env.Get("BITBUCKET_PR_ID"))
		},
	},
	{
		Name:  "codefresh",
		Match: func(env Env) bool { return env.Has("CF_BUILD_ID") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "codefresh"
			if env.Has("CF_REPO_OWNER") && env.Has("CF_REPO_NAME") {
				m.Slug = env.Get("CF_REPO_OWNER") + "/" + env.Get("CF_REPO_NAME")
			}
			set(&m.BuildID, env.Get("CF_BUILD_ID"))
			set(&m.BuildURL, env.Get("CF_BUILD_URL"))
			set(&m.Branch, env.Get("CF_BRANCH"))
			set(&m.Commit, env.Get("CF_REVISION"))
			set(&m.PullRequestID, env.Get("CF_PULL_REQUEST_NUMBER"))
		},
	},
	{
		Name:  "codebuild",
		Match: func(env Env) bool { return env.Has("CODEBUILD_BUILD_ID") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "codebuild"
			set(&m.BuildID, env.Get("CODEBUILD_BUILD_ID"))
			set(&m.Commit, env.Get("CODEBUILD_RESOLVED_SOURCE_VERSION"))
			set(&m.Branch, refBranch(env.Get("CODEBUILD_WEBHOOK_HEAD_REF")))
			if url := env.Get("CODEBUILD_SOURCE_REPO_URL"); url != "" {
				host, slug := HostAndSlug(url)
				set(&m.RepoHost, host)
				set(&m.Slug, slug)
			}
		},
	},
	{
		Name:  "sourcehut",
		Match: func(env Env) bool { return env.Get("CI_NAME") == "sourcehut" },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "sourcehut"
			set(&m.BuildID, env.Get("JOB_ID"))
			set(&m.BuildURL, env.Get("JOB_URL"))
		},
	},
	{
		Name:  "heroku-ci",
		Match: func(env Env) bool { return env.Has("HEROKU_TEST_RUN_ID") },
		Apply: func(env Env, m *Metadata) {
			m.ServiceName = "heroku-ci"
			set(&m.BuildID, env.Get("HEROKU_TEST_RUN_ID"))
			set(&m.Branch, env.Get("HEROKU_TEST_RUN_BRANCH"))
			set(&m.Commit, env.Get("HEROKU_TEST_RUN_COMMIT_VERSION"))
		},
	},
}
