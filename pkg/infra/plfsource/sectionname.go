package plfsource

import (
	"fmt"

	"github.com/m-mizutani/plfrecover/pkg/domain/model"
)

// sectionNames maps [file type][section type] to the name used for dumped sections
var sectionNames = [3]map[uint32]string{
	{},
	{
		0x00: "zimage",
		0x03: "initrd",
		0x07: "bootparams.txt",
	},
	{
		0x03: "main_boot.plf",
		0x07: "bootloader.bin",
		0x09: "file_action",
		0x0b: "volume_config",
		0x0c: "installer.plf",
	},
}

// SectionID returns the identifier of a section, e.g. "002_0x09_0_file_action".
func SectionID(fileType uint32, section *model.ArchiveSection) string {
	if fileType >= uint32(len(sectionNames)) {
		fileType = 0
	}
	name, ok := sectionNames[fileType][section.Type]
	if !ok {
		name = "unk"
	}

	compressed := 0
	if section.Compressed() {
		compressed = 1
	}

	return fmt.Sprintf("%03d_0x%02x_%x_%s", section.Index, uint8(section.Type), compressed, name)
}
