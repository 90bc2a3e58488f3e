package global

import (
	"github.com/haierkeys/link-watcher-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT string
	Name string = "Link Watcher Service"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
