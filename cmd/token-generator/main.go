package main

// TO build this token-generator command:
// $ go install github.com/gazebo-web/forum-server/cmd/token-generator

// Import this file's dependencies
import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/gazebo-web/forum-server/bundles/auth"
)

// Read an environment variable and return an error if not present
func readEnvVar(name string) string {
	value := os.Getenv(name)
	if value == "" {
		log.Fatalf("Missing %s env variable. Won't be able to generate jwt token.", name)
	}
	return value
}

func main() {
	userID := flag.Uint("id", 0, "id of the user the token is issued for")
	username := flag.String("username", "", "username of the user the token is issued for")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *userID == 0 || *username == "" {
		log.Fatal("token-generator: -id and -username are required")
	}

	issuer, err := auth.NewIssuer(readEnvVar("FORUM_JWT_SECRET"), *ttl)
	if err != nil {
		log.Fatal("token-generator: ", err)
	}
	ss, exp, err := issuer.Issue(*userID, *username)
	if err != nil {
		log.Fatal("token-generator: error while generating token ", err)
	}
	log.Println("Signed token: ", ss)
	log.Println("Expires at: ", exp.Format(time.RFC3339))
}
