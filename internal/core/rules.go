package core

import (
	"fmt"
	"regexp"
)

// Rule sources.
const (
	SourceBuiltin = "builtin"
	SourceFile    = "file"
)

// Rule is a named risk pattern with per-locale explanation text.
type Rule struct {
	// Name is the stable identifier shown in messages, unique within a tier.
	Name string
	// Pattern is the regex source the rule was compiled from.
	Pattern string
	// Compiled is the compiled regex. A nil value never matches.
	Compiled *regexp.Regexp
	// Explanations maps a language code ("en", "ja") to explanation text.
	Explanations map[string]string
	// Source indicates where this rule came from.
	Source string
}

// NewRule compiles pattern and returns a rule.
func NewRule(name, pattern string, explanations map[string]string, source string) (*Rule, error) {
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern for rule %q: %w", name, err)
	}
	return &Rule{
		Name:         name,
		Pattern:      pattern,
		Compiled:     compiled,
		Explanations: explanations,
		Source:       source,
	}, nil
}

// Matches reports whether the normalized command matches the rule.
func (r *Rule) Matches(cmd string) bool {
	if r == nil || r.Compiled == nil {
		return false
	}
	return r.Compiled.MatchString(cmd)
}

// Explain returns the explanation for lang, or "" when the rule has none.
func (r *Rule) Explain(lang string) string {
	if r == nil {
		return ""
	}
	return r.Explanations[lang]
}

// Catalog holds the ordered HIGH and MEDIUM rules.
// Order within a tier is match priority: the first matching rule wins.
type Catalog struct {
	High   []*Rule
	Medium []*Rule
}

// Rules returns the rules of one tier.
func (c *Catalog) Rules(level Level) []*Rule {
	if c == nil {
		return nil
	}
	switch level {
	case LevelHigh:
		return c.High
	case LevelMedium:
		return c.Medium
	default:
		return nil
	}
}

// Len returns the number of rules across both tiers.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.High) + len(c.Medium)
}

// Merge returns a new catalog with other's rules appended after c's rules
// in each tier. Neither input is modified.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := &Catalog{}
	for _, src := range []*Catalog{c, other} {
		if src == nil {
			continue
		}
		merged.High = append(merged.High, src.High...)
		merged.Medium = append(merged.Medium, src.Medium...)
	}
	return merged
}

func builtinRule(name, pattern, en, ja string) *Rule {
	r, err := NewRule(name, pattern, map[string]string{"en": en, "ja": ja}, SourceBuiltin)
	if err != nil {
		// Built-in patterns must always be valid.
		panic(fmt.Sprintf("invalid builtin rule: %v", err))
	}
	return r
}

var builtinHigh = []*Rule{
	builtinRule("recursive-delete",
		`^(sudo\s+)?rm\s+(\S+\s+)*(-[a-zA-Z]*[rR][a-zA-Z]*|--recursive)\s+(\S+\s+)*(/|~|\$HOME|\*)`,
		"Recursively deletes files under the root, a home directory, or a wildcard. Deleted data cannot be recovered.",
		"ルート、ホームディレクトリ、またはワイルドカード配下のファイルを再帰的に削除します。削除したデータは復元できません。"),
	builtinRule("pipe-to-shell",
		`^(sudo\s+)?(env\s+)?(ba|z|k|da|fi)?sh(\s+-[a-zA-Z]+)*\s*$`,
		"Starts a shell that executes whatever is piped into it, such as a script fetched with curl. The script runs without being reviewed.",
		"パイプで渡された内容（curl で取得したスクリプトなど）をそのまま実行するシェルを起動します。スクリプトは確認されずに実行されます。"),
	builtinRule("remote-script",
		"^(sudo\\s+)?(ba|z|k|da)?sh\\s+.*(\\$\\(|<\\(|`)\\s*(curl|wget)\\b",
		"Downloads a remote script and executes it immediately.",
		"リモートのスクリプトをダウンロードして即座に実行します。"),
	builtinRule("disk-overwrite",
		`\bdd\s+.*\bof=/dev/`,
		"Writes raw data directly to a block device. Existing partitions and data on the device are destroyed.",
		"ブロックデバイスへ直接データを書き込みます。デバイス上の既存のパーティションとデータは破壊されます。"),
	builtinRule("filesystem-format",
		`^(sudo\s+)?(mkfs(\.\w+)?|mkswap|wipefs|fdisk|sfdisk|parted)\b`,
		"Formats or repartitions a disk. Everything stored on the affected device is lost.",
		"ディスクをフォーマットまたはパーティション変更します。対象デバイスに保存されたデータはすべて失われます。"),
	builtinRule("device-redirect",
		`>\s*/dev/(sd[a-z]|hd[a-z]|nvme\d|disk\d|mmcblk\d)`,
		"Redirects output onto a raw disk device, overwriting its contents.",
		"出力をディスクデバイスへリダイレクトし、内容を上書きします。"),
	builtinRule("fork-bomb",
		`^:\(\)\s*\{`,
		"Defines a fork bomb that spawns processes until the system becomes unresponsive.",
		"システムが応答しなくなるまでプロセスを増殖させるフォーク爆弾を定義します。"),
	builtinRule("sql-destroy",
		`(?i)\b(DROP\s+(DATABASE|SCHEMA|TABLE)|TRUNCATE\s+TABLE)\b`,
		"Drops or truncates database objects. The data is removed permanently unless a backup exists.",
		"データベースのオブジェクトを削除または全件削除します。バックアップがなければデータは完全に失われます。"),
	builtinRule("system-permissions",
		`^(sudo\s+)?(chmod|chown)\s+(-[a-zA-Z]+\s+)*\S+\s+/(etc|usr|var|boot|bin|sbin|lib)?(\s|/|$)`,
		"Changes ownership or permissions of system directories, which can break the operating system or open security holes.",
		"システムディレクトリの所有者や権限を変更します。OS が動作しなくなったり、セキュリティ上の問題が生じる可能性があります。"),
	builtinRule("terraform-destroy",
		`^terraform\s+destroy\b`,
		"Destroys infrastructure managed by Terraform.",
		"Terraform で管理しているインフラストラクチャを破棄します。"),
	builtinRule("cluster-delete",
		`^kubectl\s+delete\s+(ns|namespaces?|nodes?|pv|pvc|persistentvolumes?|persistentvolumeclaims?)\b`,
		"Deletes cluster-wide Kubernetes resources together with everything they contain.",
		"Kubernetes のクラスタ全体に影響するリソースを、その中身ごと削除します。"),
	builtinRule("system-shutdown",
		`^(sudo\s+)?(shutdown|reboot|halt|poweroff)\b`,
		"Shuts down or restarts the machine, interrupting every running process.",
		"マシンをシャットダウンまたは再起動し、実行中のすべてのプロセスを中断します。"),
}

var builtinMedium = []*Rule{
	builtinRule("force-push",
		`^git\s+push\b.*(\s--force(-with-lease)?\b|\s-f\b)`,
		"Force-pushes to a remote branch. Commits on the remote that are not in your local branch are overwritten.",
		"リモートブランチへ強制プッシュします。ローカルに存在しないリモートのコミットは上書きされます。"),
	builtinRule("git-reset-hard",
		`^git\s+reset\b.*--hard\b`,
		"Resets the working tree and index. Uncommitted changes are discarded.",
		"作業ツリーとインデックスをリセットします。コミットしていない変更は破棄されます。"),
	builtinRule("git-clean",
		`^git\s+clean\b.*\s-[a-zA-Z]*f`,
		"Deletes untracked files from the working tree.",
		"作業ツリーから追跡されていないファイルを削除します。"),
	builtinRule("git-branch-force-delete",
		`^git\s+branch\b.*\s-D\b`,
		"Force-deletes a branch even if it has unmerged commits.",
		"マージされていないコミットがあってもブランチを強制削除します。"),
	builtinRule("git-discard-changes",
		`^git\s+(checkout|restore)\s+(--\s+)?\.(\s|$)`,
		"Discards all uncommitted changes in the working tree.",
		"作業ツリーのコミットしていない変更をすべて破棄します。"),
	builtinRule("git-history-rewrite",
		`^git\s+(rebase|filter-branch|filter-repo)\b`,
		"Rewrites commit history. Conflicts or mistakes can lose work.",
		"コミット履歴を書き換えます。競合や操作ミスで作業内容が失われる可能性があります。"),
	builtinRule("file-delete",
		`^(sudo\s+)?rm(\s|$)`,
		"Deletes files. Removed files do not go to the trash.",
		"ファイルを削除します。削除したファイルはゴミ箱に移動しません。"),
	builtinRule("recursive-permissions",
		`^(sudo\s+)?(chmod|chown)\s+.*-R\b`,
		"Recursively changes permissions or ownership of a directory tree.",
		"ディレクトリツリー全体の権限または所有者を再帰的に変更します。"),
	builtinRule("process-kill",
		`^(sudo\s+)?(kill\s+-(9|KILL)|killall|pkill)\b`,
		"Forcibly terminates processes, which may lose unsaved state.",
		"プロセスを強制終了します。保存されていない状態が失われる可能性があります。"),
	builtinRule("package-removal",
		`^(sudo\s+)?(npm|pnpm|yarn|pip3?|apt(-get)?|brew|cargo)\s+(uninstall|remove|rm|purge)\b`,
		"Removes installed packages.",
		"インストール済みのパッケージを削除します。"),
	builtinRule("container-removal",
		`^docker\s+(rm|rmi|system\s+prune|volume\s+(rm|prune)|image\s+prune)\b`,
		"Removes Docker containers, images, or volumes.",
		"Docker のコンテナ、イメージ、またはボリュームを削除します。"),
	builtinRule("kubectl-delete",
		`^kubectl\s+delete\b`,
		"Deletes Kubernetes resources.",
		"Kubernetes のリソースを削除します。"),
	builtinRule("package-publish",
		`^(npm|pnpm|yarn|cargo)\s+publish\b`,
		"Publishes a package to a public registry. Published versions usually cannot be withdrawn.",
		"パッケージを公開レジストリへ公開します。公開したバージョンは通常取り消せません。"),
	builtinRule("force-move",
		`^mv\s+(-[a-zA-Z]*f[a-zA-Z]*|--force)\s`,
		"Moves files and silently overwrites existing destinations.",
		"ファイルを移動し、既存の移動先を確認なしに上書きします。"),
	builtinRule("sudo",
		`^sudo\s`,
		"Runs a command with administrator privileges.",
		"管理者権限でコマンドを実行します。"),
}

// DefaultCatalog returns the built-in rule catalog.
// Rules are shared and must be treated as immutable.
func DefaultCatalog() *Catalog {
	return &Catalog{
		High:   append([]*Rule(nil), builtinHigh...),
		Medium: append([]*Rule(nil), builtinMedium...),
	}
}
