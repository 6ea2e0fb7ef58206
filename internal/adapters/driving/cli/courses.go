package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	catalogfile "github.com/lena-labs/lena-cli/internal/adapters/driven/catalog/file"
	configfile "github.com/lena-labs/lena-cli/internal/adapters/driven/config/file"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List the configured courses",
	Long: `Lists the courses in the catalog. The first entry is the default
course used when 'ask' is run without --course.`,
	RunE: runCourses,
}

func init() {
	rootCmd.AddCommand(coursesCmd)
}

func runCourses(cmd *cobra.Command, _ []string) error {
	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settings, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	courses := catalogfile.NewCourseStore(settings.StorageDir)
	if err := courses.Seed(); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	defaultCourse, err := courses.Default(cmd.Context())
	if err != nil {
		cmd.Println("No courses configured.")
		return nil
	}

	all, err := courses.All(cmd.Context())
	if err != nil {
		return fmt.Errorf("list courses: %w", err)
	}

	cmd.Println("Courses:")
	for _, course := range all {
		marker := " "
		if course.ID == defaultCourse.ID {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s  %s", marker, course.ID, course.Name)
		if course.Term != "" {
			line += " (" + course.Term + ")"
		}
		cmd.Println(line)
	}
	cmd.Println()
	cmd.Println("* default course")
	return nil
}
