package discovery

// curatedBase is the always-available candidate list. It seeds every run and
// serves as the sole source when the trend lookup fails.
var curatedBase = []string{
	"React",
	"Vue.js",
	"Angular",
	"Svelte",
	"Next.js",
	"Nuxt",
	"Astro",
	"HTMX",
	"Node.js",
	"Deno",
	"Bun",
	"Django",
	"FastAPI",
	"Flask",
	"Spring Boot",
	"Laravel",
	"Ruby on Rails",
	"PostgreSQL",
	"MySQL",
	"MongoDB",
	"Redis",
	"SQLite",
	"Supabase",
	"Docker",
	"Kubernetes",
	"Terraform",
	"GitHub Actions",
	"TypeScript",
	"Python",
	"Rust",
	"Go",
	"Kotlin",
	"Swift",
	"C#",
	"C++",
	"Flutter",
	"React Native",
	"Tailwind CSS",
	"GraphQL",
	"gRPC",
}

// CuratedBase returns a copy of the built-in candidate list.
func CuratedBase() []string {
	out := make([]string, len(curatedBase))
	copy(out, curatedBase)
	return out
}
