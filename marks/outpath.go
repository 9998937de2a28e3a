// ABOUTME: Default output path resolution for marks files
// ABOUTME: Builds date/video/user file names and walks a directory fallback chain

package marks

import (
	"os"
	"os/user"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"
)

// DirEnvVar overrides the default output directory when set
const DirEnvVar = "VIDEO_MARKER_DIR"

const (
	fallbackUserName = "YOUR_NAME"
	videoNameLength  = 12
)

var unsafeNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// Environment answers the platform queries needed to pick an output path
type Environment interface {
	Getenv(key string) string
	UserHomeDir() (string, error)
	Username() (string, error)
	IsDir(path string) bool
	Exists(path string) bool
	GOOS() string
}

// OSEnvironment queries the running operating system
type OSEnvironment struct{}

func (OSEnvironment) Getenv(key string) string { return os.Getenv(key) }

func (OSEnvironment) UserHomeDir() (string, error) { return os.UserHomeDir() }

func (OSEnvironment) Username() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}

	return u.Username, nil
}

func (OSEnvironment) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (OSEnvironment) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSEnvironment) GOOS() string { return runtime.GOOS }

// OutputOptions describes how to build a default output path
type OutputOptions struct {
	Now       time.Time   // Date stamp (zero means time.Now)
	VideoPath string      // Current video, empty when none is loaded
	Dir       string      // Explicit output directory
	UserName  string      // Explicit user name
	Env       Environment // Platform queries (nil means OSEnvironment)
}

// DefaultOutputPath returns <dir>/<YYYY-MM-DD>[_<video>]_marks_<user>.csv
func DefaultOutputPath(opts OutputOptions) string {
	env := opts.Env
	if env == nil {
		env = OSEnvironment{}
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	name := now.Format("2006-01-02") + videoSuffix(opts.VideoPath, env) + "_marks_" + resolveUserName(opts.UserName, env) + ".csv"

	return filepath.Join(OutputDir(opts.Dir, env), name)
}

// OutputDir resolves the output directory: explicit dir, then $VIDEO_MARKER_DIR,
// then the desktop folder, then the home directory, then "."
func OutputDir(explicit string, env Environment) string {
	if explicit != "" {
		return explicit
	}

	if dir := env.Getenv(DirEnvVar); dir != "" {
		return dir
	}

	home, err := env.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}

	for _, dir := range desktopCandidates(home, env) {
		if env.IsDir(dir) {
			return dir
		}
	}

	return home
}

// desktopCandidates lists desktop folders in lookup order for the platform
func desktopCandidates(home string, env Environment) []string {
	if env.GOOS() != "windows" {
		return []string{
			filepath.Join(home, "Desktop"),
			filepath.Join(home, "desktop"),
		}
	}

	var dirs []string
	if profile := env.Getenv("USERPROFILE"); profile != "" {
		dirs = append(dirs, filepath.Join(profile, "Desktop"))
	}

	// OneDrive redirects the desktop folder when backup is enabled
	dirs = append(dirs, filepath.Join(home, "OneDrive", "Desktop"))
	if onedrive := env.Getenv("ONEDRIVE"); onedrive != "" {
		dirs = append(dirs, filepath.Join(onedrive, "Desktop"))
	}

	return append(dirs, filepath.Join(home, "Desktop"))
}

// resolveUserName picks the explicit name, the OS account, $USER or $USERNAME
func resolveUserName(explicit string, env Environment) string {
	if explicit != "" {
		return sanitizeName(explicit)
	}

	if name, err := env.Username(); err == nil && name != "" {
		// Windows reports DOMAIN\user
		if i := strings.LastIndex(name, `\`); i >= 0 {
			name = name[i+1:]
		}

		if name != "" {
			return sanitizeName(name)
		}
	}

	for _, key := range []string{"USER", "USERNAME"} {
		if name := env.Getenv(key); name != "" {
			return sanitizeName(name)
		}
	}

	return fallbackUserName
}

// videoSuffix returns "_<first 12 chars of base name>" for an existing video
func videoSuffix(videoPath string, env Environment) string {
	if videoPath == "" || !env.Exists(videoPath) {
		return ""
	}

	base := filepath.Base(videoPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	runes := []rune(base)
	if len(runes) > videoNameLength {
		runes = runes[:videoNameLength]
	}

	name := sanitizeName(string(runes))
	if name == "" {
		return ""
	}

	return "_" + name
}

func sanitizeName(s string) string {
	return unsafeNameChars.ReplaceAllString(s, "_")
}
